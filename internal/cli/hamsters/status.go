package hamsters

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/utils"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, ok := tr.Current()
	if !ok {
		fmt.Println("No hamster selected. Add one with 'cheese hamster add <name>'.")
		return nil
	}
	now := time.Now()
	if ctx.Clock != nil {
		now = ctx.Clock()
	}
	fmt.Println(RenderStatus(h, now))
	return nil
}

// RenderStatus draws the summary card of one hamster.
func RenderStatus(h models.Hamster, now time.Time) string {
	lines := []string{cli.TitleStyle.Render(displayName(h))}

	if days, ok := utils.DaysFromToday(h.Birthday, now); ok {
		lines = append(lines, cli.Row("Age", fmt.Sprintf("%d days (born %s)", days, cli.FormatDate(h.Birthday))))
	}
	if days, ok := utils.DaysFromToday(h.ArrivalDate, now); ok {
		lines = append(lines, cli.Row("Home for", fmt.Sprintf("%d days", days)))
	}
	bedding := "unset"
	if h.BeddingType != models.BeddingUnset {
		bedding = string(h.BeddingType)
	}
	if days, ok := utils.DaysFromToday(h.LastBeddingChange, now); ok {
		bedding = fmt.Sprintf("%s, changed %d days ago", bedding, days)
	}
	lines = append(lines, cli.Row("Bedding", bedding))
	lines = append(lines, cli.Row("Entries", fmt.Sprintf("%d", len(h.Data))))

	if len(h.Data) > 0 {
		latest := h.Data[0]
		when := latest.Timestamp
		if d, ok := utils.FormatDisplayDate(latest.Timestamp); ok {
			when = d
		}
		if t, ok := utils.ParseInstant(latest.Timestamp); ok && utils.SameCivilDay(t, now) {
			when = "today"
		}
		lines = append(lines,
			cli.Row("Latest entry", when),
			cli.Row("  Weight", cli.FormatFloat(latest.Weight)+" g"),
			cli.Row("  Food", cli.FormatFloat(latest.FoodIntake)+" g"),
			cli.Row("  Wheel", cli.FormatInt(latest.WheelTurns)+" turns"),
			cli.Row("  Poop / Activity", fmt.Sprintf("%s / %s", latest.Poop, latest.Activity)),
		)
		if notes := strings.TrimSpace(latest.Notes); notes != "" {
			lines = append(lines, cli.Row("  Notes", strings.ReplaceAll(notes, "\n", "; ")))
		}
	}

	return cli.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
