package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
)

var _ port.OrdersWriter = (*OrdersRepository)(nil)

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

func (r OrdersRepository) StoreOrder(
	ctx context.Context, o domain.Order,
) error {
	const op = "OrdersRepository.StoreOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	itemsB, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO orders (
			order_id, buyer_name, buyer_email,
			street, city, state, zip,
			items, asset, amount_base_units,
			total_cents, shipping_cents, tx_hash, placed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	_, err = r.sqldb.ExecContext(ctx, query,
		o.OrderID, o.Name, o.Email,
		o.Street, o.City, o.State, o.ZIP,
		string(itemsB), string(o.Asset), o.AmountBaseUnits,
		o.TotalCents, o.ShippingCents, o.TxHash, o.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
