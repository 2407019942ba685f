package system

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/julianstephens/cheese/internal/cli"
)

type DebugCmd struct {
	DBPath      *DebugDBPathCmd      `cmd:"" help:"Show storage path."`
	Keys        *DebugKeysCmd        `cmd:"" help:"List storage keys."`
	DumpHamster *DebugDumpHamsterCmd `cmd:"" help:"Dump hamster data as JSON."`
	DumpEntry   *DebugDumpEntryCmd   `cmd:"" help:"Dump entry data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"path":    ctx.Store.GetConfigPath(),
		"backups": ctx.BackupManager().GetBackupDir(),
	}
	return printJSON(output)
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)

	type keyInfo struct {
		Key   string `json:"key"`
		Bytes int    `json:"bytes"`
	}
	out := make([]keyInfo, 0, len(keys))
	for _, k := range keys {
		v, _, err := ctx.Store.Get(k)
		if err != nil {
			return fmt.Errorf("failed to read key %s: %w", k, err)
		}
		out = append(out, keyInfo{Key: k, Bytes: len(v)})
	}
	return printJSON(out)
}

type DebugDumpHamsterCmd struct {
	ID string `arg:"" optional:"" help:"ID of the hamster to dump. Defaults to the current hamster."`
}

func (cmd *DebugDumpHamsterCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	id := cmd.ID
	if id == "" {
		id = tr.CurrentID()
	}
	h, err := tr.Hamster(id)
	if err != nil {
		return fmt.Errorf("failed to get hamster: %w", err)
	}
	return printJSON(h)
}

type DebugDumpEntryCmd struct {
	ID      string `arg:"" help:"ID of the entry to dump."`
	Hamster string `help:"Hamster owning the entry. Defaults to the current hamster."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	entries, err := tr.Entries(cmd.Hamster)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	for _, e := range entries {
		if e.ID == cmd.ID {
			return printJSON(e)
		}
	}
	return fmt.Errorf("no entry found with ID: %s", cmd.ID)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
