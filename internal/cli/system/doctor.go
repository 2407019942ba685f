package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/keyring"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/storage/sqlite"
	"github.com/julianstephens/cheese/internal/utils"
)

var processesFunc = ps.Processes

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *cli.Context) error
	warning bool // failures only warn
	needsDB bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Storage reachable", run: checkStorageReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Document generation", run: checkDocuments, needsDB: true},
		{name: "Data validation", run: checkValidation, needsDB: true},
		{name: "Quarantined documents", run: checkQuarantine, needsDB: true, warning: true},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "OS keyring", run: checkKeyring, warning: true},
		{name: "Other instances", run: checkOtherInstances, warning: true},
		{name: "Clock", run: checkClock},
	}

	hasError := false
	dbReachable := true
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Println(cli.OKStyle.Render(fmt.Sprintf("✓ %s: OK", c.name)))
		case c.warning:
			fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("⚠ %s: WARNING", c.name)))
			fmt.Printf("   %v\n", err)
		default:
			fmt.Println(cli.FailStyle.Render(fmt.Sprintf("❌ %s: FAIL", c.name)))
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// the JSON backend has no table schema
		return nil
	}
	current, latest, err := sqliteStore.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("storage schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkDocuments(ctx *cli.Context) error {
	if _, err := ctx.Tracker(); err != nil {
		return err
	}
	res := ctx.Migration()
	if res.EntriesBefore != res.EntriesAfter {
		return fmt.Errorf("entry count changed during migration: %d before, %d after", res.EntriesBefore, res.EntriesAfter)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	problems := ValidateState(tr.State(), ctx.Configuration().MaxPhotoBytes)
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s):\n   - %s", len(problems), strings.Join(problems, "\n   - "))
	}
	return nil
}

// ValidateState lists integrity problems in a loaded state. An empty result
// means the state is consistent.
func ValidateState(state models.State, maxPhotoBytes int) []string {
	var problems []string

	hamsterIDs := make(map[string]bool)
	entryIDs := make(map[string]string)
	for _, h := range state.Hamsters {
		if h.ID == "" {
			problems = append(problems, fmt.Sprintf("hamster %q has no id", h.Name))
		} else if hamsterIDs[h.ID] {
			problems = append(problems, fmt.Sprintf("duplicate hamster id %s", h.ID))
		}
		hamsterIDs[h.ID] = true

		if maxPhotoBytes > 0 && models.PhotoSize(h.Photo) > maxPhotoBytes {
			problems = append(problems, fmt.Sprintf("photo of %s exceeds %d bytes", h.ID, maxPhotoBytes))
		}
		if h.BeddingType != models.BeddingUnset && !h.BeddingType.Valid() {
			problems = append(problems, fmt.Sprintf("hamster %s has invalid bedding type %q", h.ID, h.BeddingType))
		}

		var prev time.Time
		for i, e := range h.Data {
			if owner, ok := entryIDs[e.ID]; ok {
				problems = append(problems, fmt.Sprintf("entry id %s appears in %s and %s", e.ID, owner, h.ID))
			}
			entryIDs[e.ID] = h.ID

			t, ok := utils.ParseInstant(e.Timestamp)
			if !ok {
				problems = append(problems, fmt.Sprintf("entry %s of %s has an unreadable timestamp %q", e.ID, h.ID, e.Timestamp))
				continue
			}
			if i > 0 && !prev.IsZero() && t.After(prev) {
				problems = append(problems, fmt.Sprintf("history of %s is not newest first at entry %s", h.ID, e.ID))
			}
			prev = t
		}
	}

	if len(state.Hamsters) > 0 && state.Index(state.CurrentID) < 0 {
		problems = append(problems, fmt.Sprintf("current hamster %q does not exist", state.CurrentID))
	}
	return problems
}

func checkQuarantine(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}
	var quarantined []string
	for _, k := range keys {
		if strings.HasPrefix(k, constants.QuarantinePrefix) {
			quarantined = append(quarantined, k)
		}
	}
	if len(quarantined) > 0 {
		return fmt.Errorf("unreadable documents were moved aside: %s", strings.Join(quarantined, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'cheese backup create'")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; store the API key with 'cheese settings --api-key' instead")
	}
	return nil
}

// checkOtherInstances warns when another cheese process could be writing the
// same storage. Nothing prevents it, so this only warns.
func checkOtherInstances(ctx *cli.Context) error {
	procs, err := processesFunc()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	self, parent := os.Getpid(), os.Getppid()
	var others []string
	for _, p := range procs {
		if p.Pid() == self || p.Pid() == parent {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if name == constants.AppName {
			others = append(others, fmt.Sprintf("%d", p.Pid()))
		}
	}
	if len(others) > 0 {
		return fmt.Errorf("other %s processes are running (pid %s); concurrent writes may overwrite each other", constants.AppName, strings.Join(others, ", "))
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
