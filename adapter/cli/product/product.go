package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/catalog/adapter/cli"
	"github.com/felixgeelhaar/catalog/internal/catalog/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the product command group
var Cmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"p"},
	Short:   "Manage products",
	Long:    `Create, list, retitle, reprice and retire products in the catalog.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(retitleCmd)
	Cmd.AddCommand(repriceCmd)
	Cmd.AddCommand(describeCmd)
	Cmd.AddCommand(tagCmd)
	Cmd.AddCommand(discontinueCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(importCmd)
}

var errNotInitialized = errors.New("catalog is not initialized: check DATABASE_URL or SQLITE_PATH")

func requireApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil {
		return nil, errNotInitialized
	}
	return app, nil
}

func parseProductID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(arg))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid product ID %q", arg)
	}
	return id, nil
}

func printProduct(out io.Writer, p *queries.ProductDTO) {
	fmt.Fprintf(out, "%s\n", p.Title)
	fmt.Fprintf(out, "  ID:      %s\n", p.ID)
	fmt.Fprintf(out, "  Price:   %s\n", p.Price)
	fmt.Fprintf(out, "  Status:  %s\n", p.Status)
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:    %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(out, "  About:   %s\n", p.Description)
	}
	fmt.Fprintf(out, "  Version: %d (updated %s)\n", p.Version, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
