package hamsters

import (
	"fmt"
	"os"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/models"
	"github.com/julianstephens/cheese/internal/utils"
)

type HamsterCmd struct {
	Add    HamsterAddCmd    `cmd:"" help:"Add a hamster and select it."`
	Edit   HamsterEditCmd   `cmd:"" help:"Edit a hamster's profile."`
	Delete HamsterDeleteCmd `cmd:"" help:"Delete a hamster and its history."`
	Select HamsterSelectCmd `cmd:"" help:"Select the current hamster."`
	List   HamsterListCmd   `cmd:"" help:"List all hamsters." default:"1"`
	Photo  HamsterPhotoCmd  `cmd:"" help:"Set or remove a hamster's photo."`
}

type HamsterAddCmd struct {
	Name              string `arg:"" optional:"" help:"Name of the hamster."`
	Birthday          string `help:"Birthday (YYYY-MM-DD)."`
	Arrival           string `help:"Arrival date (YYYY-MM-DD)."`
	Bedding           string `help:"Bedding type: thick or thin."`
	LastBeddingChange string `help:"Last bedding change (YYYY-MM-DD)."`
	Background        string `help:"Background notes handed to the analysis."`
	Photo             string `help:"Path to a photo file." type:"existingfile"`
}

func (c *HamsterAddCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	bedding, err := cli.ParseBedding(c.Bedding)
	if err != nil {
		return err
	}
	profile := models.Profile{
		Name:              c.Name,
		Birthday:          c.Birthday,
		ArrivalDate:       c.Arrival,
		LastBeddingChange: c.LastBeddingChange,
		HamsterBackground: c.Background,
	}
	if bedding != nil {
		profile.BeddingType = *bedding
	}
	if err := validateDates(profile.Birthday, profile.ArrivalDate, profile.LastBeddingChange); err != nil {
		return err
	}
	if c.Photo != "" {
		if profile.Photo, err = readPhoto(c.Photo); err != nil {
			return err
		}
	}

	id, err := tr.AddHamster(profile)
	if err != nil {
		return fmt.Errorf("failed to add hamster: %w", err)
	}
	h, _ := tr.Hamster(id)
	fmt.Printf("Added hamster: %s (ID: %s)\n", h.Name, h.ID)
	return nil
}

type HamsterEditCmd struct {
	ID                string  `arg:"" optional:"" help:"ID of the hamster to edit. Defaults to the current hamster."`
	Name              *string `help:"New name."`
	Birthday          *string `help:"Birthday (YYYY-MM-DD, empty to clear)."`
	Arrival           *string `help:"Arrival date (YYYY-MM-DD, empty to clear)."`
	Bedding           *string `help:"Bedding type: thick, thin or unset."`
	LastBeddingChange *string `help:"Last bedding change (YYYY-MM-DD, empty to clear)."`
	Background        *string `help:"Background notes handed to the analysis."`
}

func (c *HamsterEditCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	id, err := resolveID(ctx, c.ID)
	if err != nil {
		return err
	}

	patch := models.ProfilePatch{
		Name:              c.Name,
		Birthday:          c.Birthday,
		ArrivalDate:       c.Arrival,
		LastBeddingChange: c.LastBeddingChange,
		HamsterBackground: c.Background,
	}
	if c.Bedding != nil {
		b, err := models.ParseBeddingType(*c.Bedding)
		if err != nil {
			return err
		}
		patch.BeddingType = &b
	}
	if patch.IsEmpty() {
		fmt.Println("No changes specified.")
		return nil
	}
	if err := validateDates(deref(c.Birthday), deref(c.Arrival), deref(c.LastBeddingChange)); err != nil {
		return err
	}

	if err := tr.UpdateHamster(id, patch); err != nil {
		return fmt.Errorf("failed to update hamster: %w", err)
	}
	fmt.Printf("Updated hamster: %s\n", id)
	return nil
}

type HamsterDeleteCmd struct {
	ID  string `arg:"" help:"ID of the hamster to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HamsterDeleteCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := tr.Hamster(c.ID)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(c.Yes,
		fmt.Sprintf("Delete %s?", displayName(h)),
		fmt.Sprintf("%d entries will be removed with it.", len(h.Data)),
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if err := tr.DeleteHamster(c.ID); err != nil {
		return fmt.Errorf("failed to delete hamster: %w", err)
	}
	fmt.Printf("Deleted hamster: %s\n", displayName(h))
	if current, ok := tr.Current(); ok {
		fmt.Printf("Current hamster is now %s\n", displayName(current))
	}
	return nil
}

type HamsterSelectCmd struct {
	ID string `arg:"" help:"ID of the hamster to select."`
}

func (c *HamsterSelectCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.SelectHamster(c.ID); err != nil {
		return fmt.Errorf("failed to select hamster: %w", err)
	}
	if current, ok := tr.Current(); ok {
		fmt.Printf("Selected %s\n", displayName(current))
	} else {
		fmt.Printf("No hamster with ID %s; nothing is selected\n", c.ID)
	}
	return nil
}

type HamsterPhotoCmd struct {
	File   string `arg:"" optional:"" help:"Path to the photo file." type:"existingfile"`
	ID     string `help:"ID of the hamster. Defaults to the current hamster."`
	Remove bool   `help:"Remove the current photo."`
}

func (c *HamsterPhotoCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	id, err := resolveID(ctx, c.ID)
	if err != nil {
		return err
	}

	var photo string
	switch {
	case c.Remove:
	case c.File != "":
		if photo, err = readPhoto(c.File); err != nil {
			return err
		}
	default:
		return fmt.Errorf("specify a photo file or --remove")
	}

	if err := tr.UpdateHamster(id, models.ProfilePatch{Photo: &photo}); err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	if c.Remove {
		fmt.Println("Photo removed.")
	} else {
		fmt.Printf("Photo updated (%d bytes).\n", models.PhotoSize(photo))
	}
	return nil
}

func resolveID(ctx *cli.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return "", err
	}
	current := tr.CurrentID()
	if current == "" {
		return "", fmt.Errorf("no hamster selected; pass an ID or run 'cheese hamster add'")
	}
	return current, nil
}

func readPhoto(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	return models.EncodePhoto(data)
}

func validateDates(dates ...string) error {
	for _, d := range dates {
		if d == "" {
			continue
		}
		if _, ok := utils.ParseInstant(d); !ok {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", d)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func displayName(h models.Hamster) string {
	if h.Name == "" {
		return h.ID
	}
	return h.Name
}
