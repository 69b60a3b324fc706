package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wallctl/wallctl/internal/api"
	"github.com/wallctl/wallctl/internal/category"
	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/preview"
	"github.com/wallctl/wallctl/internal/selector"
	"github.com/wallctl/wallctl/internal/wallpaper"
)

// defaultCategory is searched when neither the flag nor the config names one.
const defaultCategory = "other"

// SearchCmd browses random search results one at a time and applies the
// accepted image. It is the default command.
type SearchCmd struct {
	Category           string `help:"Category: anime|a, other|o, oa, nsfw|n" short:"w" name:"category"`
	Query              string `help:"Search text" short:"q" name:"query"`
	Pywal              *bool  `help:"Generate a color palette with pywal" short:"p" name:"pywal" negatable:""`
	NoMultipleMonitors bool   `help:"Only set the first monitor" name:"no-multiple-monitors"`
	Notify             *bool  `help:"Send a desktop notification" name:"notify" negatable:""`

	Preview *bool `help:"Show inline image preview" name:"preview" negatable:""`
	Copy    bool  `help:"Copy the saved file path to clipboard" name:"copy" short:"c"`
	Open    bool  `help:"Open the image URL in browser" name:"open" short:"o"`
}

// Run executes the interactive search loop.
func (c *SearchCmd) Run(ctx context.Context, root *RootFlags) error {
	if root != nil && root.NoInput {
		return &ExitError{Code: 2, Err: errors.New("search is interactive and cannot run with --no-input; use 'wallctl set' instead")}
	}

	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = &config.Config{}
	}

	cat, err := c.category(cfg)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	client := api.ClientFromContext(ctx)
	if client == nil {
		return errors.New("api client not found in context")
	}

	u := uiFrom(ctx)
	u.Err().Hintf("Selected category: %s", cat.Label())

	opts := selector.Options{
		Source:  client,
		Fetcher: client,
		Query: api.SearchQuery{
			Categories: cat.Categories(),
			Purity:     cat.Purity(),
			Text:       c.Query,
		},
		In:  stdin,
		Out: u.Out().Writer(),
		Err: u.Err().Writer(),
	}

	if cat.SingleSource() {
		opts.SingleSourceURL = client.SingleSourceURL()
	}

	if shouldPreview(c.Preview, cfg) {
		opts.Renderer = preview.New(preview.Options{Writer: os.Stdout})
	}

	res, err := selector.New(opts).Run(ctx)
	if err != nil {
		return err
	}

	if res.Mode != selector.Accepted {
		return nil
	}

	applier, err := newApplier(cfg, applySettings{
		dir:          categoryDir(cfg, cat.Dir()),
		multiMonitor: !c.NoMultipleMonitors && config.BoolOr(cfg.MultipleMonitors, true),
		palette:      resolveBool(c.Pywal, cfg.Pywal, false),
		notify:       resolveBool(c.Notify, cfg.Notify, true),
	})
	if err != nil {
		return err
	}

	applied, err := applier.Apply(ctx, wallpaper.Request{
		URL:          res.Candidate.Path,
		Image:        res.Image,
		SingleSource: cat.SingleSource(),
	})
	if err != nil {
		return fmt.Errorf("applying wallpaper: %w", err)
	}

	if err := reportApplied(ctx, appliedResult{
		Path:     applied.Path,
		Desktop:  applied.Desktop.String(),
		URL:      res.Candidate.Path,
		Category: cat.Dir(),
	}); err != nil {
		return err
	}

	openURL := ""
	if c.Open {
		openURL = res.Candidate.Path
	}

	postActions(ctx, c.Copy, openURL, applied.Path)

	return nil
}

// category resolves the flag > config > "other" cascade.
func (c *SearchCmd) category(cfg *config.Config) (category.Category, error) {
	name := c.Category
	if name == "" {
		name = cfg.Category
	}

	if name == "" {
		name = defaultCategory
	}

	return category.Parse(name)
}
