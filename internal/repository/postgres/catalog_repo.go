// internal/repository/postgres/catalog_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/vishnupprajapat/nextfast/internal/domain/catalog"
	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
}

func NewCatalogRepository(db *pgxpool.Pool, dbWrapper *DB) *CatalogRepository {
	return &CatalogRepository{
		db:        db,
		dbWrapper: dbWrapper,
	}
}

// collectionRow is one line of the collections/categories join. The
// category columns are NULL for a collection without categories.
type collectionRow struct {
	ID           int
	Name         string
	Slug         string
	CategorySlug *string
	CategoryName *string
	ImageURL     *string
}

// groupCollections folds the ordered join rows into collections, keeping
// the row order for both levels.
func groupCollections(rows []collectionRow) []catalog.Collection {
	collections := []catalog.Collection{}
	index := map[int]int{}

	for _, row := range rows {
		pos, ok := index[row.ID]
		if !ok {
			collections = append(collections, catalog.Collection{
				ID:         row.ID,
				Name:       row.Name,
				Slug:       row.Slug,
				Categories: []catalog.Category{},
			})
			pos = len(collections) - 1
			index[row.ID] = pos
		}
		if row.CategorySlug == nil {
			continue
		}

		name := ""
		if row.CategoryName != nil {
			name = *row.CategoryName
		}
		collections[pos].Categories = append(collections[pos].Categories, catalog.Category{
			Slug:         *row.CategorySlug,
			Name:         name,
			CollectionID: row.ID,
			ImageURL:     row.ImageURL,
		})
	}
	return collections
}

// ListCollections returns every collection with its categories, both
// ordered by name.
func (r *CatalogRepository) ListCollections(ctx context.Context) ([]catalog.Collection, error) {
	query := `
		SELECT c.id, c.name, c.slug, cat.slug, cat.name, cat.image_url
		FROM collections c
		LEFT JOIN categories cat ON cat.collection_id = c.id
		ORDER BY c.name ASC, c.id ASC, cat.name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var joined []collectionRow
	for rows.Next() {
		var row collectionRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Slug, &row.CategorySlug, &row.CategoryName, &row.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		joined = append(joined, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collections: %w", err)
	}

	return groupCollections(joined), nil
}

// ListCategories backs the admin categories page.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	query := `
		SELECT cat.slug, cat.name, cat.collection_id, c.name, cat.image_url
		FROM categories cat
		JOIN collections c ON c.id = cat.collection_id
		ORDER BY cat.name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []catalog.Category{}
	for rows.Next() {
		var cat catalog.Category
		if err := rows.Scan(&cat.Slug, &cat.Name, &cat.CollectionID, &cat.CollectionName, &cat.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *CatalogRepository) FindSubcategory(ctx context.Context, slug string) (*catalog.Subcategory, error) {
	var s catalog.Subcategory
	err := r.db.QueryRow(ctx,
		`SELECT slug, name, category_slug, image_url FROM subcategories WHERE slug = $1`,
		slug,
	).Scan(&s.Slug, &s.Name, &s.CategorySlug, &s.ImageURL)
	if err != nil {
		if xerrors.Is(mapError(err), xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subcategory: %w", err)
	}
	return &s, nil
}

// ProductsBySubcategory lists a subcategory's products by slug together
// with their count, both read from one snapshot.
func (r *CatalogRepository) ProductsBySubcategory(ctx context.Context, slug string) ([]product.Product, int64, error) {
	var (
		total    int64
		products []product.Product
	)
	err := r.dbWrapper.ReadSnapshot(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM products WHERE subcategory_slug = $1`, slug,
		).Scan(&total); err != nil {
			return fmt.Errorf("failed to count subcategory products: %w", err)
		}

		query := fmt.Sprintf(`
			SELECT %s
			FROM products
			WHERE subcategory_slug = $1
			ORDER BY slug ASC
		`, productColumns)
		rows, err := tx.Query(ctx, query, slug)
		if err != nil {
			return fmt.Errorf("failed to list subcategory products: %w", err)
		}
		products, err = collectProducts(rows)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
