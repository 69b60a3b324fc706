package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/wallctl/wallctl/internal/actions"
	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/outfmt"
	"github.com/wallctl/wallctl/internal/wallpaper"
)

// CurrentCmd prints the wallpaper recorded by the last successful apply.
type CurrentCmd struct {
	Open    bool `help:"Open the file in the default image viewer" short:"o"`
	Reapply bool `help:"Apply the recorded wallpaper again"`
}

// Run reads the sentinel file.
func (c *CurrentCmd) Run(ctx context.Context) error {
	sentinel, err := wallpaper.DefaultSentinel()
	if err != nil {
		return err
	}

	path, err := sentinel.Read()
	if err != nil {
		return err
	}

	if path == "" {
		if outfmt.IsJSON(ctx) {
			return outfmt.WriteJSON(os.Stdout, map[string]any{"path": nil})
		}

		uiFrom(ctx).Err().Hintf("No wallpaper has been applied yet")

		return nil
	}

	if c.Reapply {
		cfg := config.FromContext(ctx)
		if cfg == nil {
			cfg = &config.Config{}
		}

		applier, err := newApplier(cfg, applySettings{
			multiMonitor: config.BoolOr(cfg.MultipleMonitors, true),
		})
		if err != nil {
			return err
		}

		if _, err := applier.ApplyFile(ctx, path); err != nil {
			return fmt.Errorf("reapplying wallpaper: %w", err)
		}
	}

	if err := outfmt.Emit(ctx, os.Stdout, map[string]any{"path": path}, func() error {
		fmt.Fprintln(os.Stdout, path)

		return nil
	}); err != nil {
		return err
	}

	if c.Open {
		if err := actions.OpenFile(path); err != nil {
			uiFrom(ctx).Err().Warnf("%v", err)
		}
	}

	return nil
}
