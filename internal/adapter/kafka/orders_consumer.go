package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
	"github.com/cardsonbase/cards-tcg-store/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

type ConsumerOpt func(*consumerOpts) error

func ConsumerClientOpt(
	seedBrokers []string, topic, group string,
) ConsumerOpt {
	return func(co *consumerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		)
		if err != nil {
			return err
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func ConsumerNoticeSenderOpt(ns port.OrderNoticeSender) ConsumerOpt {
	return func(co *consumerOpts) error {
		if ns == nil {
			return errors.New("order notice sender is nil")
		}
		co.noticeSender = ns
		return nil
	}
}

type consumerOpts struct {
	cl           ConsumerClient
	decoder      Decoder
	noticeSender port.OrderNoticeSender
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	return nil
}

// A consumer is used for composition.
//
// Fetching records from kafka broker and closing underlying [kgo.Client].
type consumerParent interface {
	processFetches(context.Context, kgo.Fetches) error
}

type consumer struct {
	opPrefix      string
	parent        consumerParent
	cl            ConsumerClient
	slowDownTimer *time.Timer
}

func (c consumer) run(ctx context.Context) {
	const op = "run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown()
			}
		}
	}
}

func (c consumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	err = c.parent.processFetches(ctx, fetches)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.commit(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	err := c.handleFetchesErrs(fetches)
	if err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c consumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c consumer) slowDown() {
	c.slowDownTimer.Reset(1 * time.Second)
	<-c.slowDownTimer.C
}

func (c consumer) commit(ctx context.Context) error {
	const op = "commit"

	err := ctx.Err()
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) close() {
	const op = "close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	c.slowDownTimer.Stop()

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

// An OrdersConsumer consumes order-placed events and forwards each order
// to the core service for notification. A failed send is logged and the
// offset is committed anyway: notification is best-effort by design and
// never replayed against an already-paid order.
type OrdersConsumer struct {
	opPrefix string
	consumer consumer
	sender   port.OrderNoticeSender
	decoder  Decoder
}

func NewOrdersConsumer(opts ...ConsumerOpt) (oc OrdersConsumer, err error) {
	const op = "NewOrdersConsumer"

	if len(opts) != 3 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return oc, opErr(err, op)
	}

	opPrefix := "OrdersConsumer"

	oc.opPrefix = opPrefix
	oc.sender = options.noticeSender
	oc.decoder = options.decoder

	oc.consumer = consumer{
		opPrefix:      opPrefix,
		parent:        oc,
		cl:            options.cl,
		slowDownTimer: time.NewTimer(0),
	}

	return oc, nil
}

func (c OrdersConsumer) Run(ctx context.Context) {
	c.consumer.run(ctx)
}

func (c OrdersConsumer) Close() {
	c.consumer.close()
}

func (c OrdersConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"
	log := slog.With("op", makeOp(c.opPrefix, op))

	for _, v := range c.toDomain(fetches) {
		err := c.sender.SendOrderNotice(ctx, v)
		if err != nil {
			log.Error("failed to send order notice, skipping",
				"order", v.OrderID, "err", err)
		}
	}
	return nil
}

func (c OrdersConsumer) toDomain(
	fetches kgo.Fetches,
) (vs []domain.Order) {
	const op = "toDomain"
	log := slog.With("op", makeOp(c.opPrefix, op))

	fetches.EachRecord(func(r *kgo.Record) {
		v, err := c.decodeRecValue(r)
		if err != nil {
			log.Error(
				"failed to decode value",
				"err", opErr(err, c.opPrefix, op),
			)
			return
		}
		vs = append(vs, v)
	})
	return vs
}

func (c OrdersConsumer) decodeRecValue(
	r *kgo.Record,
) (domain.Order, error) {
	var s schema.OrderPlacedV1
	err := c.decoder.Decode(r.Value, &s)
	if err != nil {
		return domain.Order{}, err
	}
	return schemaV1ToOrder(s), nil
}
