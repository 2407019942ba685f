package settings

import (
	"fmt"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/keyring"
	"github.com/julianstephens/cheese/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	APIKey *string `name:"api-key" help:"API key for the analysis service (empty to clear)."`
	Theme  *string `help:"Theme token, e.g. cherry."`

	HamsterName       *string `help:"Name of the current hamster."`
	HamsterBirthday   *string `help:"Birthday of the current hamster (YYYY-MM-DD)."`
	ArrivalDate       *string `help:"Arrival date of the current hamster (YYYY-MM-DD)."`
	BeddingType       *string `help:"Bedding of the current hamster: thick, thin or unset."`
	LastBeddingChange *string `help:"Last bedding change of the current hamster (YYYY-MM-DD)."`
	HamsterBackground *string `help:"Background notes of the current hamster."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	if c.List {
		view := tr.LegacySettingsView()
		apiKey := "(not set)"
		if view.APIKey != "" {
			apiKey = keyring.Mask(view.APIKey)
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  API Key:               %s\n", apiKey)
		fmt.Printf("  Theme:                 %s\n", view.Theme)
		fmt.Println("\nCurrent Hamster:")
		if !view.OnboardingCompleted {
			fmt.Println("  (none selected)")
			return nil
		}
		bedding := string(view.BeddingType)
		if bedding == "" {
			bedding = "unset"
		}
		fmt.Printf("  Name:                  %s\n", view.HamsterName)
		fmt.Printf("  Birthday:              %s\n", cli.FormatDate(view.HamsterBirthday))
		fmt.Printf("  Arrival Date:          %s\n", cli.FormatDate(view.ArrivalDate))
		fmt.Printf("  Bedding:               %s\n", bedding)
		fmt.Printf("  Last Bedding Change:   %s\n", cli.FormatDate(view.LastBeddingChange))
		fmt.Printf("  Photo:                 %v\n", view.HamsterPhoto != "")
		return nil
	}

	patch := models.LegacySettingsPatch{
		APIKey:            c.APIKey,
		Theme:             c.Theme,
		HamsterName:       c.HamsterName,
		HamsterBirthday:   c.HamsterBirthday,
		ArrivalDate:       c.ArrivalDate,
		LastBeddingChange: c.LastBeddingChange,
		HamsterBackground: c.HamsterBackground,
	}
	if c.BeddingType != nil {
		b, err := models.ParseBeddingType(*c.BeddingType)
		if err != nil {
			return err
		}
		patch.BeddingType = &b
	}

	if patch == (models.LegacySettingsPatch{}) {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := tr.UpdateSettings(patch); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
