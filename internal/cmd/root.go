package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/wallctl/wallctl/internal/api"
	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/outfmt"
	"github.com/wallctl/wallctl/internal/ui"
)

// RootFlags are global flags available to all commands.
type RootFlags struct {
	Color   string `help:"Color output: auto|always|never" default:"auto" enum:"auto,always,never"`
	JSON    bool   `help:"JSON output" default:"false"`
	Verbose bool   `help:"Verbose logging" default:"false"`
	NoInput bool   `help:"Never prompt; fail instead" name:"no-input" default:"false"`
}

// CLI is the top-level Kong command struct.
type CLI struct {
	RootFlags `embed:""`

	Version    kong.VersionFlag `help:"Print version and exit"`
	VersionCmd VersionCmd       `cmd:"" name:"version" help:"Print version info"`
	Search     SearchCmd        `cmd:"" name:"search" default:"withargs" help:"Browse random wallpapers and apply one"`
	Set        SetCmd           `cmd:"" name:"set" help:"Apply a wallpaper from a local directory"`
	Current    CurrentCmd       `cmd:"" name:"current" help:"Show the last applied wallpaper"`
	Categories CategoriesCmd    `cmd:"" name:"categories" aliases:"ls" help:"List wallpaper categories"`
	Config     ConfigCmd        `cmd:"" name:"config" help:"Manage configuration"`
}

// Execute parses CLI args, sets up context, and runs the matched command.
func Execute(args []string) (err error) {
	cli := &CLI{}
	parser, err := kong.New(
		cli,
		kong.Name("wallctl"),
		kong.Description("Browse, preview and apply desktop wallpapers from the terminal"),
		kong.ConfigureHelp(helpOptions()),
		kong.Help(helpPrinter),
		kong.Vars{"version": VersionString()},
		kong.Writers(os.Stdout, os.Stderr),
		kong.Exit(func(code int) { panic(exitPanic{code: code}) }),
	)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if ep, ok := r.(exitPanic); ok {
				if ep.code == 0 {
					err = nil
					return
				}
				err = &ExitError{Code: ep.code, Err: errors.New("exited")}
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return &ExitError{Code: 2, Err: err}
	}

	// Verbose logging
	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Output mode
	mode := outfmt.Mode{JSON: cli.JSON}
	ctx := context.Background()
	ctx = outfmt.WithMode(ctx, mode)

	// UI printer -- force no color in JSON mode
	uiColor := cli.Color
	if outfmt.IsJSON(ctx) {
		uiColor = "never"
	}
	u, uiErr := ui.New(ui.Options{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  uiColor,
	})
	if uiErr != nil {
		return uiErr
	}
	ctx = ui.WithUI(ctx, u)

	// Config
	cfgPath, _ := config.ConfigPath()
	cfg, cfgErr := config.Load(cfgPath)
	if cfgErr != nil {
		slog.Warn("loading config", "error", cfgErr)
		cfg = &config.Config{}
	}
	ctx = config.WithConfig(ctx, cfg)

	// API client
	ctx = api.WithClient(ctx, newClient(cfg, cli.Verbose))

	// Bind context + root flags to Kong
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(&cli.RootFlags)

	return kctx.Run()
}

// newClient builds the search client. WALLHAVEN_API_KEY overrides the
// configured key.
func newClient(cfg *config.Config, verbose bool) *api.Client {
	key := os.Getenv("WALLHAVEN_API_KEY")
	if key == "" {
		key = cfg.APIKey
	}

	return api.NewClient(api.ClientOptions{
		BaseURL:    cfg.SearchURL,
		APIKey:     key,
		Resolution: cfg.Resolution,
		Verbose:    verbose,
		UserAgent:  "wallctl/" + version,
	})
}

// uiFrom returns the context UI, or a colorless one on the process streams.
func uiFrom(ctx context.Context) *ui.UI {
	if u := ui.FromContext(ctx); u != nil {
		return u
	}

	u, _ := ui.New(ui.Options{Color: "never"})

	return u
}
