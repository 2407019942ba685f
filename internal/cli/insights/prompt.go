package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/cheese/internal/analysis"
	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/keyring"
	"github.com/julianstephens/cheese/internal/logger"
)

// PromptCmd prints what the analysis service would be sent for a hamster.
// Nothing is sent.
type PromptCmd struct {
	Hamster string `help:"ID of the hamster. Defaults to the current hamster."`
	Limit   int    `help:"Number of recent entries to include (0 for all)." default:"14"`
	JSON    bool   `help:"Print the request body as JSON."`
}

func (c *PromptCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	id := c.Hamster
	if id == "" {
		id = tr.CurrentID()
		if id == "" {
			return errors.New("no hamster selected; pass --hamster or run 'cheese hamster select'")
		}
	}
	h, err := tr.Hamster(id)
	if err != nil {
		return err
	}

	now := time.Now()
	if ctx.Clock != nil {
		now = ctx.Clock()
	}
	view := analysis.BuildView(h, now, c.Limit)
	req, err := analysis.BuildRequest(view)
	if err != nil {
		return err
	}

	key, source, err := analysis.ResolveAPIKey(tr.Settings())
	switch {
	case err == nil:
		logger.Debug("API key resolved", "source", source)
	case errors.Is(err, analysis.ErrNoAPIKey):
		logger.Debug("No API key configured")
	default:
		logger.Warn("Failed to resolve API key", "error", err)
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(req)
	}

	for _, msg := range req.Messages {
		fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("[%s]", msg.Role)))
		fmt.Println(msg.Content)
		fmt.Println()
	}
	fmt.Println(cli.Row("Model", req.Model))
	fmt.Println(cli.Row("Entries", fmt.Sprintf("%d", len(view.Entries))))
	if key != "" {
		fmt.Println(cli.Row("API key", fmt.Sprintf("%s (from %s)", keyring.Mask(key), source)))
	} else {
		fmt.Println(cli.Row("API key", cli.WarnStyle.Render("not configured")))
	}
	return nil
}
