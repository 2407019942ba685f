package hamsters

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cheese/internal/cli"
)

type HamsterListCmd struct{}

func (c *HamsterListCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	hamsters := tr.Hamsters()
	if len(hamsters) == 0 {
		fmt.Println("No hamsters yet. Add one with 'cheese hamster add <name>'.")
		return nil
	}

	current := tr.CurrentID()
	fmt.Printf("%-2s %-36s  %-20s  %-8s  %s\n", "", "ID", "NAME", "ENTRIES", "BIRTHDAY")
	fmt.Println(strings.Repeat("-", 84))
	for _, h := range hamsters {
		marker := ""
		if h.ID == current {
			marker = "*"
		}
		fmt.Printf("%-2s %-36s  %-20s  %-8d  %s\n", marker, h.ID, truncate(h.Name, 20), len(h.Data), cli.FormatDate(h.Birthday))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
