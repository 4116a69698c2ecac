package repository

import (
	"context"

	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	const q = `
		INSERT INTO products (id, name, sku, stock, price_cents, category)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, q, p.ID(), p.Name(), p.SKU(), p.Stock(), p.PriceCents(), p.Category())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("sku already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create product", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return r.findBy(ctx, `WHERE id = $1`, id)
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return r.findBy(ctx, `WHERE sku = $1`, sku)
}

func (r *ProductRepository) findBy(ctx context.Context, where string, arg any) (*product.Product, error) {
	q := `SELECT id, name, sku, stock, price_cents, category FROM products ` + where

	var (
		id         uuid.UUID
		name       string
		sku        string
		stock      int64
		priceCents int64
		category   string
	)
	err := r.pool.QueryRow(ctx, q, arg).Scan(&id, &name, &sku, &stock, &priceCents, &category)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}

	return product.ReconstructProduct(id, name, sku, stock, priceCents, category), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*product.Product, error) {
	const q = `SELECT id, name, sku, stock, price_cents, category FROM products ORDER BY name`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var result []*product.Product
	for rows.Next() {
		var (
			id         uuid.UUID
			name       string
			sku        string
			stock      int64
			priceCents int64
			category   string
		)
		if err := rows.Scan(&id, &name, &sku, &stock, &priceCents, &category); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", err)
		}
		result = append(result, product.ReconstructProduct(id, name, sku, stock, priceCents, category))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product rows", err)
	}

	return result, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	const q = `
		UPDATE products
		SET name = $2, sku = $3, stock = $4, price_cents = $5, category = $6, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, p.ID(), p.Name(), p.SKU(), p.Stock(), p.PriceCents(), p.Category())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("sku already exists", err, infra.KindDuplicateKey)
		}
		if isCheckViolation(err) {
			return infra.WrapRepoErr("stock cannot go negative", err, infra.KindInsufficient)
		}
		return infra.WrapRepoErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("product not found", infra.KindNotFound)
	}
	return nil
}

// Delete hard-deletes a product unless any workshop's materialsUsed still
// references it.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const refQuery = `
		SELECT EXISTS (
			SELECT 1
			FROM workshops, jsonb_array_elements(materials_used) AS usage
			WHERE usage->>'product_id' = $1::text
		)`

	var referenced bool
	if err := r.pool.QueryRow(ctx, refQuery, id).Scan(&referenced); err != nil {
		return infra.WrapRepoErr("failed to check product references", err)
	}
	if referenced {
		return infra.NewRepoErr("product is referenced by workshop materials", infra.KindConflict)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("product is referenced by balances", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("product not found", infra.KindNotFound)
	}
	return nil
}

// DecrementStock performs the atomic conditional decrement on catalog stock.
// The WHERE guard runs the sufficiency check and the decrement in a single
// statement, so two concurrent allocations cannot both pass a stale read.
func (r *ProductRepository) DecrementStock(ctx context.Context, tx db.DBTX, id uuid.UUID, qty int64) error {
	const q = `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`

	tag, err := tx.Exec(ctx, q, id, qty)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement product stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("insufficient product stock", infra.KindInsufficient)
	}
	return nil
}
