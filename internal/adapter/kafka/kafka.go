package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/pkg/schema"
	"github.com/lovoo/goka"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func timeUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func orderToSchemaV1(v domain.Order) (s schema.OrderPlacedV1) {
	s.OrderID = v.OrderID
	s.BuyerName = v.Name
	s.BuyerEmail = v.Email
	s.Street = v.Street
	s.City = v.City
	s.State = v.State
	s.ZIP = v.ZIP
	s.Asset = string(v.Asset)
	s.AmountBaseUnits = v.AmountBaseUnits
	s.TotalCents = v.TotalCents
	s.ShippingCents = v.ShippingCents
	s.TxHash = v.TxHash
	s.PlacedAt = v.PlacedAt.Unix()

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i := range v.Items {
		s.Items[i].ProductID = v.Items[i].ProductID
		s.Items[i].Name = v.Items[i].Name
		s.Items[i].Quantity = v.Items[i].Quantity
	}
	return
}

func schemaV1ToOrder(s schema.OrderPlacedV1) (v domain.Order) {
	v.OrderID = s.OrderID
	v.Name = s.BuyerName
	v.Email = s.BuyerEmail
	v.Street = s.Street
	v.City = s.City
	v.State = s.State
	v.ZIP = s.ZIP
	v.Asset = domain.Asset(s.Asset)
	v.AmountBaseUnits = s.AmountBaseUnits
	v.TotalCents = s.TotalCents
	v.ShippingCents = s.ShippingCents
	v.TxHash = s.TxHash
	v.PlacedAt = timeUnix(s.PlacedAt)

	v.Items = make([]domain.OrderItem, len(s.Items))
	for i := range s.Items {
		v.Items[i].ProductID = s.Items[i].ProductID
		v.Items[i].Name = s.Items[i].Name
		v.Items[i].Quantity = s.Items[i].Quantity
	}
	return
}
