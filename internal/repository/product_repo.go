package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/model"
)

const productColumns = `id, name, price, COALESCE(description, ''), category, created_at, updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	created, err := scanProduct(r.pool.QueryRow(ctx,
		`INSERT INTO products (name, price, description, category)
		 VALUES ($1, $2, NULLIF($3, ''), $4)
		 RETURNING `+productColumns,
		p.Name, p.Price, p.Description, p.Category))
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND `+notDeleted, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	updated, err := scanProduct(r.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, price = $3, description = NULLIF($4, ''), category = $5, updated_at = now()
		 WHERE id = $1 AND `+notDeleted+`
		 RETURNING `+productColumns,
		p.ID, p.Name, p.Price, p.Description, p.Category))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET deleted_at = now(), updated_at = now() WHERE id = $1 AND `+notDeleted, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, q model.ProductListQuery) (model.ProductPage, error) {
	where := notDeleted
	args := []any{}

	if q.Name != "" {
		args = append(args, "%"+q.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if q.Category != "" {
		args = append(args, "%"+q.Category+"%")
		where += fmt.Sprintf(" AND category ILIKE $%d", len(args))
	}

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total)
	if err != nil {
		return model.ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	args = append(args, q.Limit, offset)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			productColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return model.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return model.ProductPage{}, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return model.ProductPage{}, err
	}

	return model.ProductPage{
		TotalItems:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.Limit))),
		CurrentPage: q.Page,
		Products:    products,
	}, nil
}
