package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/pkg/database"
)

const productColumns = `id, seq, name, description, price, category, images, stock, ratings_average, ratings_count, created_at, updated_at`

var orderColumns = map[catalog.Field]string{
	catalog.FieldPrice:     "price",
	catalog.FieldName:      `name COLLATE "C"`,
	catalog.FieldRating:    "ratings_average",
	catalog.FieldCreatedAt: "created_at",
	catalog.FieldSeq:       "seq",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productRepository implements ProductRepository interface
type productRepository struct {
	db *database.Postgres
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.Postgres) ProductRepository {
	return &productRepository{db: db}
}

// Query counts every match, then reads the requested window in compiled order
func (r *productRepository) Query(ctx context.Context, q catalog.Query) ([]domain.Product, int, error) {
	where, args := whereClause(q.Filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []domain.Product{}
	if q.Window.Empty() || q.Window.Offset >= total {
		return products, total, nil
	}

	n := len(args)
	selectQuery := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderClause(q.Order), n+1, n+2)
	args = append(args, q.Window.Limit, q.Window.Offset)

	rows, err := r.db.DB.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product with id %s not found: %w", id, ErrNotFound)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}

	return product, nil
}

// Create inserts a product and reads back the assigned sequence
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, category, images, stock, ratings_average, ratings_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq
	`

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		pq.Array(product.Images),
		product.Stock,
		product.Ratings.Average,
		product.Ratings.Count,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.Seq)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func whereClause(f catalog.Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		conds = append(conds, fmt.Sprintf(`(name ILIKE $%[1]d ESCAPE '\' OR description ILIKE $%[1]d ESCAPE '\')`, len(args)))
	}
	if f.Price.Min != nil {
		args = append(args, *f.Price.Min)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.Price.Max != nil {
		args = append(args, *f.Price.Max)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(order catalog.Order) string {
	terms := make([]string, 0, len(order))
	for _, term := range order {
		column, ok := orderColumns[term.Field]
		if !ok {
			continue
		}
		if term.Desc {
			column += " DESC"
		} else {
			column += " ASC"
		}
		terms = append(terms, column)
	}
	if len(terms) == 0 {
		return "created_at DESC, seq DESC"
	}
	return strings.Join(terms, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}

	err := row.Scan(
		&product.ID,
		&product.Seq,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		pq.Array(&product.Images),
		&product.Stock,
		&product.Ratings.Average,
		&product.Ratings.Count,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if product.Images == nil {
		product.Images = []string{}
	}

	return product, nil
}
