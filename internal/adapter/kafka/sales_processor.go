package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/cardsonbase/cards-tcg-store/pkg/schema"
	"github.com/lovoo/goka"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderEventCodec used for serde [schema.OrderPlacedV1]
type orderEventCodec struct {
	serde Serde
}

func newOrderEventCodec(s Serde) orderEventCodec {
	return orderEventCodec{s}
}

func (c orderEventCodec) Encode(v any) ([]byte, error) {
	const op = "orderEventCodec.Encode"
	if _, ok := v.(schema.OrderPlacedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderEventCodec) Decode(data []byte) (any, error) {
	const op = "orderEventCodec.Decode"
	var s schema.OrderPlacedV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A salesCount represents units sold for a particular product.
type salesCount int64

// A salesCountCodec used for serde [salesCount]
type salesCountCodec struct{}

func (salesCountCodec) Encode(v any) ([]byte, error) {
	const op = "salesCountCodec.Encode"
	sv, ok := v.(salesCount)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data := strconv.AppendInt([]byte(nil), int64(sv), 10)
	return data, nil
}

func (salesCountCodec) Decode(data []byte) (any, error) {
	const op = "salesCountCodec.Decode"
	sv, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return salesCount(sv), nil
}

// A SalesCounterProcessor accumulates units sold per product
// from the order-placed stream into a group table.
//
// Incoming records are keyed by order id, so each item is re-keyed
// by product id through the loopback before counting.
type SalesCounterProcessor struct {
	opPrefix string
	proc     processor
}

func NewSalesCounterProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	orderSerde Serde,
) (*SalesCounterProcessor, error) {
	const op = "NewSalesCounterProc"

	var p SalesCounterProcessor

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newOrderEventCodec(orderSerde),
			p.processFn,
		),
		goka.Loop(salesCountCodec{}, p.loopFn),
		goka.Persist(salesCountCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: "SalesCounterProcessor",
		gp:       gp,
	}

	return &p, nil
}

func (p *SalesCounterProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *SalesCounterProcessor) Close() {
	p.proc.close()
}

func (p *SalesCounterProcessor) processFn(ctx goka.Context, msg any) {
	event, _ := msg.(schema.OrderPlacedV1)
	for _, item := range event.Items {
		ctx.Loopback(item.ProductID, salesCount(item.Quantity))
	}
}

func (p *SalesCounterProcessor) loopFn(ctx goka.Context, msg any) {
	const op = "loopFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	qty, _ := msg.(salesCount)

	var cur salesCount
	if v := ctx.Value(); v != nil {
		cur, _ = v.(salesCount)
	}

	next := cur + qty
	ctx.SetValue(next)
	log.Info("counted sale", "productID", ctx.Key(), "unitsSold", next)
}
