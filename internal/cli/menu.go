package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qikao/ordering/internal/menu"
)

// MenuOptions holds flags for the menu command.
type MenuOptions struct {
	*RootOptions
	MenuPath string
	Category string
	Search   string
}

// NewMenuCommand creates the menu command.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MenuOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the menu",
		Long: `List the catalog the server would offer, optionally filtered by
category or searched by name and description.

Example:
  qikao menu
  qikao menu --category snacks
  qikao menu --search chapati --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MenuPath, "menu", "", "path to a catalog YAML file (default: built-in menu)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "only show items in this category")
	cmd.Flags().StringVar(&opts.Search, "search", "", "only show items matching this text")

	return cmd
}

type menuItemOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

func runMenu(opts *MenuOptions, cmd *cobra.Command) error {
	catalog, err := loadCatalog(opts.MenuPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load menu", err)
	}

	items := catalog.Filter(opts.Category)
	if opts.Search != "" {
		matched := catalog.Search(opts.Search)
		keep := make(map[string]bool, len(matched))
		for _, item := range matched {
			keep[item.ID] = true
		}
		filtered := items[:0:0]
		for _, item := range items {
			if keep[item.ID] {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.Format == "json" {
		out := make([]menuItemOutput, 0, len(items))
		for _, item := range items {
			out = append(out, menuItemOutput{
				ID:       item.ID,
				Name:     item.Name,
				Category: item.Category,
				Price:    item.Price.String(),
			})
		}
		return formatter.Success(out)
	}

	return formatter.Success(renderMenuTable(items))
}

func renderMenuTable(items []menu.Item) string {
	if len(items) == 0 {
		return "no items match"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-28s %-10s %12s\n", "ID", "NAME", "CATEGORY", "PRICE")
	for _, item := range items {
		fmt.Fprintf(&b, "%-4s %-28s %-10s %12s\n", item.ID, item.Name, item.Category, item.Price.String())
	}
	return strings.TrimRight(b.String(), "\n")
}
