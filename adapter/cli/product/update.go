package product

import (
	"fmt"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/commands"
	"github.com/spf13/cobra"
)

var retitleCmd = &cobra.Command{
	Use:   "retitle [product-id] [title]",
	Short: "Change a product's title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}

		if err := app.RetitleProductHandler.Handle(cmd.Context(), commands.RetitleProductCommand{
			ProductID: id,
			OwnerID:   app.CurrentOwnerID,
			Title:     args[1],
		}); err != nil {
			return fmt.Errorf("failed to retitle product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Retitled product %s to %q\n", id, args[1])
		return nil
	},
}

var repriceCurrency string

var repriceCmd = &cobra.Command{
	Use:   "reprice [product-id] [amount]",
	Short: "Change a product's price",
	Long: `Change a product's price. The currency stays the same unless
--currency is given.

Examples:
  catalog product reprice 3f0c... 19.99
  catalog product reprice 3f0c... 22 --currency USD`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}

		if err := app.RepriceProductHandler.Handle(cmd.Context(), commands.RepriceProductCommand{
			ProductID: id,
			OwnerID:   app.CurrentOwnerID,
			Amount:    args[1],
			Currency:  repriceCurrency,
		}); err != nil {
			return fmt.Errorf("failed to reprice product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Repriced product %s\n", id)
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [product-id] [description]",
	Short: "Replace a product's description",
	Long:  `Replace a product's description. An empty string clears it.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}

		text := args[1]
		if err := app.UpdateDetailsHandler.Handle(cmd.Context(), commands.UpdateDetailsCommand{
			ProductID:   id,
			OwnerID:     app.CurrentOwnerID,
			Description: &text,
		}); err != nil {
			return fmt.Errorf("failed to describe product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated description of product %s\n", id)
		return nil
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag [product-id] [tag...]",
	Short: "Add tags to a product",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}

		if err := app.UpdateDetailsHandler.Handle(cmd.Context(), commands.UpdateDetailsCommand{
			ProductID: id,
			OwnerID:   app.CurrentOwnerID,
			AddTags:   args[1:],
		}); err != nil {
			return fmt.Errorf("failed to tag product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Tagged product %s\n", id)
		return nil
	},
}

var discontinueCmd = &cobra.Command{
	Use:   "discontinue [product-id]",
	Short: "Withdraw a product from sale",
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

		if err := app.DiscontinueProductHandler.Handle(cmd.Context(), commands.DiscontinueProductCommand{
			ProductID: id,
			OwnerID:   app.CurrentOwnerID,
		}); err != nil {
			return fmt.Errorf("failed to discontinue product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Discontinued product %s\n", id)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete [product-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a product",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}

		if err := app.DeleteProductHandler.Handle(cmd.Context(), commands.DeleteProductCommand{
			ProductID: id,
			OwnerID:   app.CurrentOwnerID,
		}); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %s\n", id)
		return nil
	},
}

func init() {
	repriceCmd.Flags().StringVar(&repriceCurrency, "currency", "", "ISO 4217 currency code (default: keep current)")
}
