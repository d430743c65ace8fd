package product

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/catalog/internal/catalog/application/commands"
	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

// importRecord is one product in an import file.
type importRecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Currency    string   `json:"currency"`
	Tags        []string `json:"tags"`
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create products from a JSON file",
	Long: `Create products from a JSON array such as

  [{"title": "Desk Lamp", "price": "39.90", "currency": "EUR", "tags": ["lighting"]}]

Each product is created in its own transaction; failures are reported and
the remaining products are still imported. A title repeated within the file
is imported once, from its first record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		f, err := security.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		var records []importRecord
		if err := json.NewDecoder(f).Decode(&records); err != nil {
			return fmt.Errorf("failed to parse import file: %w", err)
		}

		out := cmd.OutOrStdout()
		firsts := firstOccurrences(records)
		var errs []error
		created := 0
		for i, r := range records {
			if !firsts[i] {
				errs = append(errs, fmt.Errorf("record %d (%q): %w in import file", i+1, r.Title, domain.ErrDuplicateTitle))
				fmt.Fprintf(out, "  skipped %q: repeated in import file\n", r.Title)
				continue
			}
			if r.Currency == "" {
				r.Currency = "EUR"
			}
			result, err := app.CreateProductHandler.Handle(cmd.Context(), commands.CreateProductCommand{
				OwnerID:     app.CurrentOwnerID,
				Title:       r.Title,
				Description: r.Description,
				PriceAmount: r.Price,
				Currency:    r.Currency,
				Tags:        r.Tags,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("record %d (%q): %w", i+1, r.Title, err))
				fmt.Fprintf(out, "  skipped %q: %v\n", r.Title, err)
				continue
			}
			created++
			fmt.Fprintf(out, "  created %q (%s)\n", r.Title, result.ProductID)
		}

		fmt.Fprintf(out, "Imported %d of %d products\n", created, len(records))
		return errors.Join(errs...)
	},
}

// firstOccurrences marks the records to import: every record except those
// repeating the title of an earlier one. Records with blank titles stay
// marked so the create command reports them.
func firstOccurrences(records []importRecord) []bool {
	var titles []domain.Title
	for _, r := range records {
		if t, err := domain.NewTitle(r.Title); err == nil {
			titles = append(titles, t)
		}
	}
	distinct := domain.DistinctTitles(titles)

	marks := make([]bool, len(records))
	next := 0
	for i, r := range records {
		t, err := domain.NewTitle(r.Title)
		if err != nil {
			marks[i] = true
			continue
		}
		if next < len(distinct) && t.Equals(distinct[next]) {
			marks[i] = true
			next++
		}
	}
	return marks
}
