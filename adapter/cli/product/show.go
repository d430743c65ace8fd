package product

import (
	"fmt"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/queries"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [product-id]",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}

		product, err := app.GetProductHandler.Handle(cmd.Context(), queries.GetProductQuery{
			ProductID: id,
			OwnerID:   app.CurrentOwnerID,
		})
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}

		if showJSON {
			return printJSON(cmd.OutOrStdout(), product)
		}
		printProduct(cmd.OutOrStdout(), product)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print as JSON")
}
