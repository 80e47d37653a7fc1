package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
	"github.com/google/uuid"
)

var _ port.CheckoutStarter = (*Service)(nil)
var _ port.AddressTaker = (*Service)(nil)
var _ port.ShippingQuoter = (*Service)(nil)
var _ port.TermsAccepter = (*Service)(nil)
var _ port.PaymentSubmitter = (*Service)(nil)
var _ port.PaymentConfirmer = (*Service)(nil)
var _ port.OrderNoticeSender = (*Service)(nil)
var _ port.ProductsSaver = (*Service)(nil)

// PaymentConfig tells the service who receives funds and which contracts
// represent each accepted asset. The native gas asset has no contract.
type PaymentConfig struct {
	MerchantAddress string
	AssetContracts  map[domain.Asset]string
	PaymentTimeout  time.Duration
}

type Service struct {
	catalog  port.CatalogReader
	stock    port.StockDecrementer
	upserter port.ProductsUpserter
	orders   port.OrdersWriter
	producer port.OrderPlacedProducer
	notifier port.OrderNotifier
	prices   port.PriceSource
	sessions *SessionStore
	payments PaymentConfig
	now      func() time.Time
}

func New(
	catalog port.CatalogReader,
	stock port.StockDecrementer,
	upserter port.ProductsUpserter,
	orders port.OrdersWriter,
	producer port.OrderPlacedProducer,
	notifier port.OrderNotifier,
	prices port.PriceSource,
	sessions *SessionStore,
	payments PaymentConfig,
) *Service {
	return &Service{
		catalog:  catalog,
		stock:    stock,
		upserter: upserter,
		orders:   orders,
		producer: producer,
		notifier: notifier,
		prices:   prices,
		sessions: sessions,
		payments: payments,
		now:      time.Now,
	}
}

// Run drives the session expiry sweep until ctx is done.
func (s *Service) Run(ctx context.Context) {
	const op = "Service.Run"
	log := slog.With("op", op)

	sweep := s.payments.PaymentTimeout / 4
	if sweep < time.Second {
		sweep = time.Second
	}

	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	log.Info("session expiry sweeper is running")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.sessions.ExpireStale(s.now(), s.payments.PaymentTimeout)
			if n > 0 {
				log.Warn("expired unconfirmed sessions", "count", n)
			}
		}
	}
}

// StartCheckout re-validates every cart line against current stock and
// opens a session. A stock conflict rejects the whole attempt before any
// payment step is reachable.
func (s *Service) StartCheckout(
	ctx context.Context, cart domain.Cart,
) (*domain.CheckoutSession, error) {
	const op = "Service.StartCheckout"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cart.Empty() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	ps, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idx := domain.IndexProducts(ps)

	for _, l := range cart.Lines() {
		p, ok := idx[l.ProductID]
		if !ok {
			return nil, fmt.Errorf(
				"%s: %q: %w", op, l.ProductID, domain.ErrUnknownProduct,
			)
		}
		if l.Quantity > p.StockCount {
			return nil, fmt.Errorf(
				"%s: %q: have %d want %d: %w",
				op, l.ProductID, p.StockCount, l.Quantity,
				domain.ErrStockConflict,
			)
		}
	}

	cs := &domain.CheckoutSession{
		ID:        uuid.NewString(),
		Cart:      cart,
		Catalog:   idx,
		State:     domain.StateBrowsing,
		UpdatedAt: s.now(),
	}
	s.sessions.Put(cs)
	return cs, nil
}

func (s *Service) EnterAddress(
	ctx context.Context, sessionID string, addr domain.Address,
) error {
	const op = "Service.EnterAddress"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := addr.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.update(op, sessionID, func(cs *domain.CheckoutSession) error {
		if err := cs.Advance(domain.StateAddressEntered, s.now()); err != nil {
			return err
		}
		cs.Address = addr
		cs.Quoted = false
		return nil
	})
}

// QuoteShipping computes the shipping cost for the session's address and
// cart weight. Pure recompute: quoting twice changes nothing.
func (s *Service) QuoteShipping(
	ctx context.Context, sessionID string,
) (int64, error) {
	const op = "Service.QuoteShipping"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var cents int64
	err := s.update(op, sessionID, func(cs *domain.CheckoutSession) error {
		weight, err := cs.Cart.TotalWeightOz(cs.Catalog)
		if err != nil {
			return err
		}
		if err := cs.Advance(domain.StateShippingQuoted, s.now()); err != nil {
			return err
		}
		cs.ShippingCents = domain.QuoteShipping(cs.Address.ZIP, weight)
		cs.Quoted = true
		cents = cs.ShippingCents
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cents, nil
}

func (s *Service) AcceptTerms(ctx context.Context, sessionID string) error {
	const op = "Service.AcceptTerms"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.update(op, sessionID, func(cs *domain.CheckoutSession) error {
		if !cs.Quoted {
			return domain.ErrNoShippingQuote
		}
		if err := cs.Advance(domain.StateTermsAccepted, s.now()); err != nil {
			return err
		}
		cs.TermsAccepted = true
		return nil
	})
}

// SubmitPayment composes the final total for the chosen asset and returns
// the instruction handed to the external wallet submitter.
func (s *Service) SubmitPayment(
	ctx context.Context, sessionID, payerAddress string, asset domain.Asset,
) (domain.PaymentInstruction, domain.CheckoutTotal, error) {
	const op = "Service.SubmitPayment"

	var zeroI domain.PaymentInstruction
	var zeroT domain.CheckoutTotal

	if err := ctx.Err(); err != nil {
		return zeroI, zeroT, fmt.Errorf("%s: %w", op, err)
	}

	var total domain.CheckoutTotal
	err := s.update(op, sessionID, func(cs *domain.CheckoutSession) error {
		if !cs.TermsAccepted {
			return domain.ErrTermsNotAccepted
		}
		if payerAddress == "" {
			return domain.ErrNoPayer
		}

		subtotal, err := cs.Cart.SubtotalCents(cs.Catalog)
		if err != nil {
			return err
		}

		price, err := s.prices.PriceUSD(asset)
		if err != nil {
			return err
		}

		composed, err := domain.ComposeTotal(
			subtotal, cs.ShippingCents, asset, price,
		)
		if err != nil {
			return err
		}

		if err := cs.Advance(domain.StatePaymentSubmitted, s.now()); err != nil {
			return err
		}

		cs.PayerAddress = payerAddress
		cs.Asset = asset
		cs.Total = composed
		total = composed
		return nil
	})
	if err != nil {
		return zeroI, zeroT, err
	}

	instruction := domain.PaymentInstruction{
		Recipient:       s.payments.MerchantAddress,
		AmountBaseUnits: total.Payable,
		Asset:           asset,
		AssetContract:   s.payments.AssetContracts[asset],
	}
	return instruction, total, nil
}

// ConfirmPayment finalizes a session once the on-chain transfer is
// confirmed. Payment is irreversible at this point, so fulfillment side
// effects (stock decrement, order record, event, notification) are
// best-effort: failures are logged and swallowed, never surfaced.
func (s *Service) ConfirmPayment(
	ctx context.Context, sessionID, txHash string,
) error {
	const op = "Service.ConfirmPayment"
	log := slog.With("op", op, "session", sessionID)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// The locked transition admits exactly one caller into fulfillment;
	// side effects run outside the lock.
	var order domain.Order
	var lines []domain.CartLine
	err := s.update(op, sessionID, func(cs *domain.CheckoutSession) error {
		if err := cs.Advance(domain.StateConfirmed, s.now()); err != nil {
			return err
		}
		cs.TxHash = txHash
		lines = cs.Cart.Lines()
		order = s.buildOrder(cs)
		return nil
	})
	if err != nil {
		return err
	}

	for _, l := range lines {
		err := s.stock.DecrementStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			log.Error("stock decrement failed, needs follow-up",
				"product", l.ProductID, "quantity", l.Quantity, "err", err)
		}
	}

	if err := s.orders.StoreOrder(ctx, order); err != nil {
		log.Error("order record failed, needs follow-up",
			"order", order.OrderID, "err", err)
	}

	if err := s.producer.ProduceOrderPlaced(ctx, order); err != nil {
		log.Error("order event failed, notification skipped",
			"order", order.OrderID, "err", err)
	}

	s.sessions.Delete(sessionID)
	log.Info("order confirmed", "order", order.OrderID, "tx", txHash)
	return nil
}

// FailPayment records a wallet rejection or submission failure. The user
// may start over; nothing was charged.
func (s *Service) FailPayment(
	ctx context.Context, sessionID, reason string,
) error {
	const op = "Service.FailPayment"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.update(op, sessionID, func(cs *domain.CheckoutSession) error {
		cs.Fail(reason, s.now())
		return nil
	})
}

// SendOrderNotice forwards a consumed order event to the notifier.
func (s *Service) SendOrderNotice(
	ctx context.Context, order domain.Order,
) error {
	const op = "Service.SendOrderNotice"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.SendOrderPlaced(ctx, order); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveProducts stores a catalog batch received from the shop backoffice.
func (s *Service) SaveProducts(
	ctx context.Context, ps []domain.Product,
) error {
	const op = "Service.SaveProducts"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.upserter.UpsertProducts(ctx, ps); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// update applies fn to the session under the store lock, so a state check
// and its transition cannot interleave with another request or the expiry
// sweep.
func (s *Service) update(
	op, sessionID string, fn func(*domain.CheckoutSession) error,
) error {
	if err := s.sessions.Update(sessionID, fn); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) buildOrder(cs *domain.CheckoutSession) domain.Order {
	items := make([]domain.OrderItem, 0, len(cs.Cart.Lines()))
	for _, l := range cs.Cart.Lines() {
		p := cs.Catalog[l.ProductID]
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Name:      p.Name,
			Quantity:  l.Quantity,
		})
	}

	return domain.Order{
		OrderID:         uuid.NewString(),
		Name:            cs.Address.Name,
		Email:           cs.Address.Email,
		Street:          cs.Address.Street,
		City:            cs.Address.City,
		State:           cs.Address.State,
		ZIP:             cs.Address.ZIP,
		Items:           items,
		Asset:           cs.Asset,
		AmountBaseUnits: cs.Total.Payable.String(),
		TotalCents:      cs.Total.TotalCents,
		ShippingCents:   cs.Total.ShippingCents,
		TxHash:          cs.TxHash,
		PlacedAt:        s.now(),
	}
}
