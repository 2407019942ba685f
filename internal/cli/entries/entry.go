package entries

import (
	"fmt"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/models"
)

type EntryCmd struct {
	Add    EntryAddCmd    `cmd:"" help:"Record a new entry."`
	Edit   EntryEditCmd   `cmd:"" help:"Edit an entry."`
	Delete EntryDeleteCmd `cmd:"" help:"Delete an entry."`
	List   EntryListCmd   `cmd:"" help:"List entries, newest first." default:"1"`
	Today  EntryTodayCmd  `cmd:"" help:"Add food, wheel turns or a note to the newest entry."`
	Clear  EntryClearCmd  `cmd:"" help:"Delete every entry of a hamster, keeping its profile."`
}

type EntryAddCmd struct {
	Hamster     string   `help:"ID of the hamster. Defaults to the current hamster."`
	At          string   `help:"Date or RFC3339 time of the entry. Defaults to now."`
	Weight      *float64 `help:"Weight in grams."`
	Food        *float64 `help:"Food intake in grams."`
	Wheel       *int     `help:"Wheel turns."`
	Poop        string   `help:"Poop: Normal, Soft or None."`
	Activity    string   `help:"Activity: Normal, High or Low."`
	Interaction string   `help:"Interaction: None, Held or Stressful."`
	Environment string   `help:"Environment: Normal, Bright, Loud, Hot or Cold."`
	Notes       string   `help:"Free-form notes."`
}

func (c *EntryAddCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	draft := models.EntryDraft{
		Timestamp:  c.At,
		Weight:     c.Weight,
		FoodIntake: c.Food,
		WheelTurns: c.Wheel,
		Notes:      c.Notes,
	}
	if c.Poop != "" {
		if draft.Poop, err = models.ParsePoop(c.Poop); err != nil {
			return err
		}
	}
	if c.Activity != "" {
		if draft.Activity, err = models.ParseActivity(c.Activity); err != nil {
			return err
		}
	}
	if c.Interaction != "" {
		if draft.Interaction, err = models.ParseInteraction(c.Interaction); err != nil {
			return err
		}
	}
	if c.Environment != "" {
		if draft.Environment, err = models.ParseEnvironment(c.Environment); err != nil {
			return err
		}
	}

	entry, err := tr.AddEntry(c.Hamster, draft)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	fmt.Printf("Added entry: %s (%s)\n", entry.ID, cli.FormatDate(entry.Timestamp))
	return nil
}

type EntryEditCmd struct {
	ID          string   `arg:"" help:"ID of the entry to edit."`
	Hamster     string   `help:"ID of the hamster. Defaults to the current hamster."`
	At          *string  `help:"New date or RFC3339 time."`
	Weight      *float64 `help:"Weight in grams."`
	Food        *float64 `help:"Food intake in grams."`
	Wheel       *int     `help:"Wheel turns."`
	Poop        *string  `help:"Poop: Normal, Soft or None."`
	Activity    *string  `help:"Activity: Normal, High or Low."`
	Interaction *string  `help:"Interaction: None, Held or Stressful."`
	Environment *string  `help:"Environment: Normal, Bright, Loud, Hot or Cold."`
	Notes       *string  `help:"Replace the notes."`
}

func (c *EntryEditCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	patch := models.EntryPatch{
		Timestamp:  c.At,
		Weight:     c.Weight,
		FoodIntake: c.Food,
		WheelTurns: c.Wheel,
		Notes:      c.Notes,
	}
	if c.Poop != nil {
		v, err := models.ParsePoop(*c.Poop)
		if err != nil {
			return err
		}
		patch.Poop = &v
	}
	if c.Activity != nil {
		v, err := models.ParseActivity(*c.Activity)
		if err != nil {
			return err
		}
		patch.Activity = &v
	}
	if c.Interaction != nil {
		v, err := models.ParseInteraction(*c.Interaction)
		if err != nil {
			return err
		}
		patch.Interaction = &v
	}
	if c.Environment != nil {
		v, err := models.ParseEnvironment(*c.Environment)
		if err != nil {
			return err
		}
		patch.Environment = &v
	}
	if patch == (models.EntryPatch{}) {
		fmt.Println("No changes specified.")
		return nil
	}

	if err := tr.UpdateEntry(c.Hamster, c.ID, patch); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	fmt.Printf("Updated entry: %s\n", c.ID)
	return nil
}

type EntryDeleteCmd struct {
	ID      string `arg:"" help:"ID of the entry to delete."`
	Hamster string `help:"ID of the hamster. Defaults to the current hamster."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.DeleteEntry(c.Hamster, c.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	fmt.Printf("Deleted entry: %s\n", c.ID)
	return nil
}

type EntryTodayCmd struct {
	Hamster string  `help:"ID of the hamster. Defaults to the current hamster."`
	Food    float64 `help:"Grams of food to add."`
	Wheel   int     `help:"Wheel turns to add."`
	Note    string  `help:"Note to append."`
}

func (c *EntryTodayCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	delta := models.Delta{FoodIntake: c.Food, WheelTurns: c.Wheel, Note: c.Note}
	if delta.IsEmpty() {
		fmt.Println("No changes specified.")
		return nil
	}

	entry, err := tr.AccumulateToday(c.Hamster, delta)
	if err != nil {
		return fmt.Errorf("failed to update today's entry: %w", err)
	}
	fmt.Printf("Updated entry %s: food %s g, wheel %s turns\n",
		entry.ID, cli.FormatFloat(entry.FoodIntake), cli.FormatInt(entry.WheelTurns))
	return nil
}

type EntryClearCmd struct {
	Hamster string `help:"ID of the hamster. Defaults to the current hamster."`
	Yes     bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *EntryClearCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	entries, err := tr.Entries(c.Hamster)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(c.Yes,
		"Delete the whole history?",
		fmt.Sprintf("%d entries will be removed. The profile and settings are kept, and a backup is taken first.", len(entries)),
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	n, err := tr.ClearEntries(c.Hamster)
	if err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	fmt.Printf("✓ Deleted %d entries.\n", n)
	return nil
}
