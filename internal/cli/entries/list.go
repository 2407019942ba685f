package entries

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/cheese/internal/cli"
)

type EntryListCmd struct {
	Hamster string `help:"ID of the hamster. Defaults to the current hamster."`
	Limit   int    `help:"Show at most this many entries (0 for all)." default:"10"`
	JSON    bool   `help:"Print the entries as JSON."`
}

func (c *EntryListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	entries, err := tr.Entries(c.Hamster)
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries yet. Record one with 'cheese entry add'.")
		return nil
	}

	fmt.Printf("%-36s  %-18s  %-7s  %-7s  %-6s  %-7s  %-8s  %s\n",
		"ID", "DATE", "WEIGHT", "FOOD", "WHEEL", "POOP", "ACTIVITY", "NOTES")
	fmt.Println(strings.Repeat("-", 110))
	for _, e := range entries {
		notes := strings.ReplaceAll(e.Notes, "\n", "; ")
		fmt.Printf("%-36s  %-18s  %-7s  %-7s  %-6s  %-7s  %-8s  %s\n",
			e.ID, cli.FormatDate(e.Timestamp),
			cli.FormatFloat(e.Weight), cli.FormatFloat(e.FoodIntake), cli.FormatInt(e.WheelTurns),
			e.Poop, e.Activity, notes)
	}
	return nil
}
