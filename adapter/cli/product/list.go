package product

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/queries"
	"github.com/spf13/cobra"
)

var (
	showAll  bool
	tagCond  string
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products sorted by title.

Examples:
  catalog product list              # Active products
  catalog product list --all        # Include discontinued products
  catalog product list --tag sale   # Products tagged "sale"`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		products, err := app.ListProductsHandler.Handle(cmd.Context(), queries.ListProductsQuery{
			OwnerID:             app.CurrentOwnerID,
			IncludeDiscontinued: showAll,
			Tag:                 tagCond,
		})
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return printJSON(out, products)
		}

		if len(products) == 0 {
			if tagCond != "" {
				fmt.Fprintf(out, "No products tagged %q.\n", tagCond)
			} else {
				fmt.Fprintln(out, "No products found. Create one with: catalog product create \"Title\" --price 9.99")
			}
			return nil
		}

		fmt.Fprintf(out, "Products (%d):\n", len(products))
		fmt.Fprintln(out, strings.Repeat("-", 70))
		for _, p := range products {
			status := ""
			if p.Status != "active" {
				status = " [" + p.Status + "]"
			}
			fmt.Fprintf(out, "%-40s %14s%s\n", p.Title, p.Price, status)
			fmt.Fprintf(out, "    ID: %s", p.ID)
			if len(p.Tags) > 0 {
				fmt.Fprintf(out, " | tags: %s", strings.Join(p.Tags, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&showAll, "all", "a", false, "include discontinued products")
	listCmd.Flags().StringVarP(&tagCond, "tag", "t", "", "only products with this tag")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print as JSON")
}
