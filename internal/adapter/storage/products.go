package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
)

var _ port.CatalogReader = (*ProductsRepository)(nil)
var _ port.StockDecrementer = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) ListProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT product_id, name, category,
		       unit_price_cents, stock_count, weight_oz
		FROM products
		ORDER BY name ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ProductID, &p.Name, &p.Category,
			&p.UnitPriceCents, &p.StockCount, &p.WeightOz,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ReadProduct(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "ProductsRepository.ReadProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT product_id, name, category,
		       unit_price_cents, stock_count, weight_oz
		FROM products
		WHERE product_id = $1;`

	var p domain.Product
	err := r.sqldb.QueryRowContext(ctx, query, productID).Scan(
		&p.ProductID, &p.Name, &p.Category,
		&p.UnitPriceCents, &p.StockCount, &p.WeightOz,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DecrementStock applies an optimistic conditional update: the row changes
// only if remaining stock still covers the quantity at write time. No lock
// is held between read and write.
func (r ProductsRepository) DecrementStock(
	ctx context.Context, productID string, quantity int,
) error {
	const op = "ProductsRepository.DecrementStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products
		SET stock_count = stock_count - $2
		WHERE product_id = $1 AND stock_count >= $2;`

	res, err := r.sqldb.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %q: %w", op, productID, ErrInsufficientStock)
	}
	return nil
}

func (r ProductsRepository) UpsertProducts(
	ctx context.Context, ps []domain.Product,
) (upsertErr error) {
	const op = "ProductsRepository.UpsertProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if upsertErr == nil {
			if err := tx.Commit(); err != nil {
				upsertErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO products (
			product_id, name, category,
			unit_price_cents, stock_count, weight_oz
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			unit_price_cents = EXCLUDED.unit_price_cents,
			stock_count = EXCLUDED.stock_count,
			weight_oz = EXCLUDED.weight_oz;`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, p := range ps {
		_, err := stmt.ExecContext(ctx,
			p.ProductID, p.Name, p.Category,
			p.UnitPriceCents, p.StockCount, p.WeightOz,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}
