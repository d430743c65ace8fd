package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const sqliteProductColumns = `id, owner_id, title, description, price_amount, price_currency,
	tags, status, version, created_at, updated_at`

// SQLiteProductRepository implements domain.Repository using SQLite.
// Tags are stored as a JSON array.
type SQLiteProductRepository struct {
	conn database.Connection
}

// NewSQLiteProductRepository creates a repository over conn.
func NewSQLiteProductRepository(conn database.Connection) *SQLiteProductRepository {
	return &SQLiteProductRepository{conn: conn}
}

// Save inserts or updates a product. The stored version is bumped on update.
func (r *SQLiteProductRepository) Save(ctx context.Context, product *domain.Product) error {
	rec := recordFromProduct(product)
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, `
		INSERT INTO products (
			id, owner_id, title, description, price_amount, price_currency,
			tags, status, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			price_amount = excluded.price_amount,
			price_currency = excluded.price_currency,
			tags = excluded.tags,
			status = excluded.status,
			version = products.version + 1,
			updated_at = excluded.updated_at
		WHERE products.owner_id = excluded.owner_id`,
		rec.ID.String(),
		rec.OwnerID.String(),
		rec.Title,
		rec.Description,
		rec.PriceAmount,
		rec.PriceCurrency,
		string(tags),
		rec.Status,
		rec.Version,
		database.FormatTime(rec.CreatedAt),
		database.FormatTime(rec.UpdatedAt),
	)
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicateTitle
	}
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", rec.ID, err)
	}
	return nil
}

// FindByID returns ErrProductNotFound when the product does not exist or
// belongs to another owner.
func (r *SQLiteProductRepository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Product, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx,
		`SELECT `+sqliteProductColumns+` FROM products WHERE id = ? AND owner_id = ?`,
		id.String(), ownerID.String(),
	)
	return scanSQLiteProduct(row)
}

// FindByOwner returns the owner's products ordered by title.
func (r *SQLiteProductRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error) {
	return r.list(ctx,
		`SELECT `+sqliteProductColumns+` FROM products WHERE owner_id = ? ORDER BY title, id`,
		ownerID.String(),
	)
}

// FindByTag returns the owner's products carrying tag, ordered by title.
func (r *SQLiteProductRepository) FindByTag(ctx context.Context, ownerID uuid.UUID, tag string) ([]*domain.Product, error) {
	return r.list(ctx, `
		SELECT `+sqliteProductColumns+` FROM products
		WHERE owner_id = ?
		  AND EXISTS (SELECT 1 FROM json_each(products.tags) WHERE json_each.value = ?)
		ORDER BY title, id`,
		ownerID.String(), tag,
	)
}

// FindByTitle matches the title exactly, including surrounding whitespace.
func (r *SQLiteProductRepository) FindByTitle(ctx context.Context, ownerID uuid.UUID, title domain.Title) (*domain.Product, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx,
		`SELECT `+sqliteProductColumns+` FROM products WHERE owner_id = ? AND title = ?`,
		ownerID.String(), title.Value(),
	)
	return scanSQLiteProduct(row)
}

func (r *SQLiteProductRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM products WHERE id = ? AND owner_id = ?`, id.String(), ownerID.String())
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *SQLiteProductRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanSQLiteProduct(row database.Row) (*domain.Product, error) {
	var (
		rec                  productRecord
		id, ownerID          string
		tags                 string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&id, &ownerID, &rec.Title, &rec.Description, &rec.PriceAmount, &rec.PriceCurrency,
		&tags, &rec.Status, &rec.Version, &createdAt, &updatedAt,
	)
	if database.IsNoRows(err) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", id, err)
	}
	if rec.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", ownerID, err)
	}
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("invalid tags on product %s: %w", id, err)
	}
	if rec.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return rec.toDomain()
}
