package cmd

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/wallctl/wallctl/internal/category"
)

func helpOptions() kong.HelpOptions {
	return kong.HelpOptions{
		Compact:        true,
		WrapUpperBound: 100,
	}
}

// helpPrinter extends the default help with the category aliases accepted
// by -w, shown on the top-level and search help pages.
func helpPrinter(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}

	if sel := ctx.Selected(); sel != nil && sel.Name != "search" {
		return nil
	}

	fmt.Fprintf(ctx.Stdout, "\nCategories (-w): %s\n", strings.Join(category.Names(), ", "))

	return nil
}
