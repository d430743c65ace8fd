package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const postgresProductColumns = `id, owner_id, title, description, price_amount, price_currency,
	tags, status, version, created_at, updated_at`

// PostgresProductRepository implements domain.Repository using PostgreSQL.
type PostgresProductRepository struct {
	conn database.Connection
}

// NewPostgresProductRepository creates a repository over conn.
func NewPostgresProductRepository(conn database.Connection) *PostgresProductRepository {
	return &PostgresProductRepository{conn: conn}
}

// Save inserts or updates a product. The stored version is bumped on update.
func (r *PostgresProductRepository) Save(ctx context.Context, product *domain.Product) error {
	rec := recordFromProduct(product)

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO products (
			id, owner_id, title, description, price_amount, price_currency,
			tags, status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price_amount = EXCLUDED.price_amount,
			price_currency = EXCLUDED.price_currency,
			tags = EXCLUDED.tags,
			status = EXCLUDED.status,
			version = products.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE products.owner_id = EXCLUDED.owner_id`,
		rec.ID,
		rec.OwnerID,
		rec.Title,
		rec.Description,
		rec.PriceAmount,
		rec.PriceCurrency,
		pq.Array(rec.Tags),
		rec.Status,
		rec.Version,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicateTitle
	}
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", rec.ID, err)
	}
	return nil
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Product, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx,
		`SELECT `+postgresProductColumns+` FROM products WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	return scanPostgresProduct(row)
}

func (r *PostgresProductRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error) {
	return r.list(ctx,
		`SELECT `+postgresProductColumns+` FROM products WHERE owner_id = $1 ORDER BY title, id`,
		ownerID,
	)
}

// FindByTag returns the owner's products carrying tag, using the GIN index.
func (r *PostgresProductRepository) FindByTag(ctx context.Context, ownerID uuid.UUID, tag string) ([]*domain.Product, error) {
	return r.list(ctx,
		`SELECT `+postgresProductColumns+` FROM products WHERE owner_id = $1 AND tags @> $2 ORDER BY title, id`,
		ownerID, pq.Array([]string{tag}),
	)
}

func (r *PostgresProductRepository) FindByTitle(ctx context.Context, ownerID uuid.UUID, title domain.Title) (*domain.Product, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx,
		`SELECT `+postgresProductColumns+` FROM products WHERE owner_id = $1 AND title = $2`,
		ownerID, title.Value(),
	)
	return scanPostgresProduct(row)
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
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

func (r *PostgresProductRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanPostgresProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanPostgresProduct(row database.Row) (*domain.Product, error) {
	var rec productRecord
	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Title, &rec.Description, &rec.PriceAmount, &rec.PriceCurrency,
		pq.Array(&rec.Tags), &rec.Status, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if database.IsNoRows(err) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return rec.toDomain()
}
