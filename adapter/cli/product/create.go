package product

import (
	"fmt"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/commands"
	"github.com/spf13/cobra"
)

var (
	price       string
	currency    string
	description string
	tags        []string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new product",
	Long: `Create a new product. Titles must not be blank and must be unique
per owner; they are stored exactly as given.

Examples:
  catalog product create "Desk Lamp" --price 39.90
  catalog product create "Kettle" -p 25 --currency GBP -d "1.7 litres" -t kitchen`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		result, err := app.CreateProductHandler.Handle(cmd.Context(), commands.CreateProductCommand{
			OwnerID:     app.CurrentOwnerID,
			Title:       args[0],
			Description: description,
			PriceAmount: price,
			Currency:    currency,
			Tags:        tags,
		})
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created product: %s\n", args[0])
		fmt.Fprintf(out, "  ID: %s\n", result.ProductID)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&price, "price", "p", "0", "price in major units, e.g. 12.50")
	createCmd.Flags().StringVar(&currency, "currency", "EUR", "ISO 4217 currency code")
	createCmd.Flags().StringVarP(&description, "description", "d", "", "product description")
	createCmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
}
