// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const productColumns = `slug, name, description, price::text, subcategory_slug, image_url, stock, created_at, updated_at`

type ProductRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
}

func NewProductRepository(db *pgxpool.Pool, dbWrapper *DB) *ProductRepository {
	return &ProductRepository{
		db:        db,
		dbWrapper: dbWrapper,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProductRow(scanner rowScanner) (*product.Product, error) {
	var p product.Product
	err := scanner.Scan(
		&p.Slug, &p.Name, &p.Description, &p.Price, &p.SubcategorySlug,
		&p.ImageURL, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]product.Product, error) {
	defer rows.Close()

	products := []product.Product{}
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// escapeLike neutralises LIKE wildcards in user input so the term matches
// literally. Postgres uses backslash as the default LIKE escape.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// buildProductFilter returns the WHERE clause (without the keyword) and its
// positional arguments. An empty query yields "TRUE".
func buildProductFilter(q product.Query) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", argPos))
		args = append(args, escapeLike(q.Search))
		argPos++
	}

	switch q.Status {
	case product.StatusOutOfStock:
		conditions = append(conditions, "stock <= 0")
	case product.StatusLowStock:
		conditions = append(conditions, fmt.Sprintf("stock >= 1 AND stock < %d", product.LowStockThreshold))
	case product.StatusInStock:
		conditions = append(conditions, fmt.Sprintf("stock >= %d", product.LowStockThreshold))
	}

	if len(conditions) == 0 {
		return "TRUE", args
	}
	return strings.Join(conditions, " AND "), args
}

// Search counts the matching products and fetches one page of them from the
// same snapshot, ordered by slug descending.
func (r *ProductRepository) Search(ctx context.Context, q product.Query, limit, offset int) ([]product.Product, int64, error) {
	whereClause, args := buildProductFilter(q)

	var (
		total    int64
		products []product.Product
	)
	err := r.dbWrapper.ReadSnapshot(ctx, func(tx pgx.Tx) error {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", whereClause)
		if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}

		argPos := len(args) + 1
		pageQuery := fmt.Sprintf(`
			SELECT %s
			FROM products
			WHERE %s
			ORDER BY slug DESC
			LIMIT $%d OFFSET $%d
		`, productColumns, whereClause, argPos, argPos+1)

		rows, err := tx.Query(ctx, pageQuery, append(args, limit, offset)...)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		products, err = collectProducts(rows)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	p, err := scanProductRow(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if xerrors.Is(mapError(err), xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// FindBySlugs loads the products for a set of slugs. Missing slugs are
// simply absent from the result; order is not guaranteed.
func (r *ProductRepository) FindBySlugs(ctx context.Context, slugs []string) ([]product.Product, error) {
	if len(slugs) == 0 {
		return []product.Product{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = ANY($1)`, productColumns)
	rows, err := r.db.Query(ctx, query, pq.Array(slugs))
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return collectProducts(rows)
}

// SuggestByName backs the storefront search dropdown.
func (r *ProductRepository) SuggestByName(ctx context.Context, term string, limit int) ([]product.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE name ILIKE '%%' || $1 || '%%'
		ORDER BY name ASC
		LIMIT $2
	`, productColumns)

	rows, err := r.db.Query(ctx, query, escapeLike(term), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}
	return exists, nil
}

const insertProduct = `
	INSERT INTO products (slug, name, description, price, subcategory_slug, image_url, stock)
	VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7)
	RETURNING created_at, updated_at
`

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.db.QueryRow(ctx, insertProduct,
		p.Slug, p.Name, p.Description, p.Price, p.SubcategorySlug, p.ImageURL, p.Stock,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", mapError(err))
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4::text::numeric,
		    subcategory_slug = $5, image_url = $6, stock = $7, updated_at = NOW()
		WHERE slug = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Slug, p.Name, p.Description, p.Price, p.SubcategorySlug, p.ImageURL, p.Stock,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", mapError(err))
	}
	return nil
}

// Rename moves a product to a new slug. The slug is the primary key, so the
// old row is removed and the new one inserted in a single transaction.
func (r *ProductRepository) Rename(ctx context.Context, originalSlug string, p *product.Product) error {
	return r.dbWrapper.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE slug = $1`, originalSlug)
		if err != nil {
			return fmt.Errorf("failed to remove old product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}

		err = tx.QueryRow(ctx, insertProduct,
			p.Slug, p.Name, p.Description, p.Price, p.SubcategorySlug, p.ImageURL, p.Stock,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert renamed product: %w", mapError(err))
		}
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, slug string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// CountByStatus summarises the catalogue for the dashboard.
func (r *ProductRepository) CountByStatus(ctx context.Context) (*product.StatusCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stock >= %[1]d),
			COUNT(*) FILTER (WHERE stock >= 1 AND stock < %[1]d),
			COUNT(*) FILTER (WHERE stock <= 0)
		FROM products
	`, product.LowStockThreshold)

	var counts product.StatusCounts
	err := r.db.QueryRow(ctx, query).Scan(&counts.Total, &counts.InStock, &counts.LowStock, &counts.OutOfStock)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return &counts, nil
}
