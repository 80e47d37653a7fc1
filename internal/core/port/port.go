package port

import (
	"context"
	"math/big"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
)

// Outbound ports.

type CatalogReader interface {
	ListProducts(context.Context) ([]domain.Product, error)
	ReadProduct(ctx context.Context, productID string) (domain.Product, error)
}

// A StockDecrementer applies an optimistic conditional decrement: the
// update lands only if remaining stock still covers the quantity.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

type ProductsUpserter interface {
	UpsertProducts(context.Context, []domain.Product) error
}

type OrdersWriter interface {
	StoreOrder(context.Context, domain.Order) error
}

type OrderPlacedProducer interface {
	ProduceOrderPlaced(context.Context, domain.Order) error
}

// An OrderNotifier delivers the order summary to the merchant. Send
// failures are operational follow-up, never order failures.
type OrderNotifier interface {
	SendOrderPlaced(context.Context, domain.Order) error
}

// A PriceSource serves the current USD unit price per payment asset.
type PriceSource interface {
	PriceUSD(asset domain.Asset) (*big.Rat, error)
}

type SessionTokenIssuer interface {
	SessionToken(ctx context.Context, walletAddress string) (string, error)
}

// Inbound ports, implemented by the core service.

type CheckoutStarter interface {
	StartCheckout(ctx context.Context, cart domain.Cart) (*domain.CheckoutSession, error)
}

type AddressTaker interface {
	EnterAddress(ctx context.Context, sessionID string, addr domain.Address) error
}

type ShippingQuoter interface {
	QuoteShipping(ctx context.Context, sessionID string) (int64, error)
}

type TermsAccepter interface {
	AcceptTerms(ctx context.Context, sessionID string) error
}

type PaymentSubmitter interface {
	SubmitPayment(
		ctx context.Context, sessionID, payerAddress string, asset domain.Asset,
	) (domain.PaymentInstruction, domain.CheckoutTotal, error)
}

type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, sessionID, txHash string) error
	FailPayment(ctx context.Context, sessionID, reason string) error
}

type OrderNoticeSender interface {
	SendOrderNotice(context.Context, domain.Order) error
}

type ProductsSaver interface {
	SaveProducts(context.Context, []domain.Product) error
}
