package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wallctl/wallctl/internal/category"
	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/outfmt"
	"github.com/wallctl/wallctl/internal/ui"
)

// CategoriesCmd lists the categories accepted by -w.
type CategoriesCmd struct{}

type categoryRow struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	Categories string   `json:"categories,omitempty"`
	Purity     string   `json:"purity,omitempty"`
	Directory  string   `json:"directory"`
	Source     string   `json:"source"`
}

// Run prints the category table.
func (c *CategoriesCmd) Run(ctx context.Context) error {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = &config.Config{}
	}

	rows := make([]categoryRow, 0, len(category.All))

	for _, cat := range category.All {
		row := categoryRow{
			Name:      cat.Label(),
			Aliases:   cat.Aliases(),
			Directory: categoryDir(cfg, cat.Dir()),
			Source:    "search",
		}

		if cat.SingleSource() {
			row.Source = "single"
		} else {
			row.Categories = cat.Categories().String()
			row.Purity = cat.Purity().String()
		}

		rows = append(rows, row)
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, rows)
	}

	color := false
	if u := ui.FromContext(ctx); u != nil {
		color = u.Out().ColorEnabled()
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.Name, strings.Join(r.Aliases, ", "), r.Categories, r.Purity, r.Source, r.Directory}
	}

	fmt.Fprintln(os.Stdout, ui.RenderTable(
		[]string{"Category", "Aliases", "Categories", "Purity", "Source", "Directory"},
		table,
		color,
	))

	return nil
}
