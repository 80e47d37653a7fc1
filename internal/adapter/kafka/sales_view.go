package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"
)

// A SalesView serves units-sold counts from the sales counter group table.
type SalesView struct {
	gv *goka.View
}

func NewSalesView(
	seedBrokers []string, groupTable string,
) (SalesView, error) {
	const op = "NewSalesView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(groupTable)),
		salesCountCodec{},
	)
	if err != nil {
		return SalesView{}, opErr(err, op)
	}

	return SalesView{gv}, nil
}

func (v SalesView) Run(ctx context.Context) {
	const op = "SalesView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// UnitsSold returns the accumulated count for the product,
// zero when the product has no sales yet.
func (v SalesView) UnitsSold(productID string) (int64, error) {
	const op = "SalesView.UnitsSold"

	raw, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, op)
	}

	if raw == nil {
		return 0, nil
	}

	sv, ok := raw.(salesCount)
	if !ok {
		return 0, opErr(ErrInvalidValueType, op)
	}
	return int64(sv), nil
}
