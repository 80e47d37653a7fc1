package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
	"github.com/resend/resend-go/v2"
)

var _ port.OrderNotifier = (*ResendNotifier)(nil)

// A ResendNotifier emails the merchant a plain-text summary
// of each placed order.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     string
}

func NewResendNotifier(apiKey, from, to string) ResendNotifier {
	return ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n ResendNotifier) SendOrderPlaced(
	ctx context.Context, v domain.Order,
) error {
	const op = "ResendNotifier.SendOrderPlaced"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject(v),
		Text:    body(v),
	}

	_, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func subject(v domain.Order) string {
	return fmt.Sprintf(
		"NEW ORDER • $%s • %s %s",
		centsToUSD(v.TotalCents), v.AmountBaseUnits, v.Asset,
	)
}

func body(v domain.Order) string {
	var sb strings.Builder

	sb.WriteString("NEW ORDER!\n\nItems:\n")
	for _, item := range v.Items {
		fmt.Fprintf(&sb, "%d x %s\n", item.Quantity, item.Name)
	}

	fmt.Fprintf(&sb, "\nTotal: $%s\n", centsToUSD(v.TotalCents))
	fmt.Fprintf(&sb, "Shipping: $%s\n", centsToUSD(v.ShippingCents))
	fmt.Fprintf(&sb, "Paid: %s %s\n", v.AmountBaseUnits, v.Asset)
	fmt.Fprintf(&sb, "Tx: https://basescan.org/tx/%s\n", v.TxHash)

	fmt.Fprintf(&sb, "\nShipping:\n%s\n%s\n%s, %s %s",
		v.Name, v.Street, v.City, v.State, v.ZIP)

	return sb.String()
}

func centsToUSD(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
