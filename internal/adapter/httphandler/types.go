package httphandler

type (
	Product struct {
		ProductID      string  `json:"product_id"`
		Name           string  `json:"name"`
		Category       string  `json:"category"`
		UnitPriceCents int64   `json:"unit_price_cents"`
		StockCount     int     `json:"stock_count"`
		WeightOz       float64 `json:"weight_oz"`
	}

	CartLine struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	StartCheckoutRequest struct {
		Lines []CartLine `json:"lines"`
	}

	StartCheckoutResponse struct {
		SessionID string `json:"session_id"`
		State     string `json:"state"`
	}

	AddressRequest struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Street string `json:"street"`
		City   string `json:"city"`
		State  string `json:"state"`
		ZIP    string `json:"zip"`
	}

	QuoteResponse struct {
		ShippingCents int64 `json:"shipping_cents"`
	}

	SubmitPaymentRequest struct {
		PayerAddress string `json:"payer_address"`
		Asset        string `json:"asset"`
	}

	SubmitPaymentResponse struct {
		Recipient       string `json:"recipient"`
		AssetContract   string `json:"asset_contract,omitempty"`
		Asset           string `json:"asset"`
		AmountBaseUnits string `json:"amount_base_units"`
		SubtotalCents   int64  `json:"subtotal_cents"`
		DiscountCents   int64  `json:"discount_cents"`
		ShippingCents   int64  `json:"shipping_cents"`
		TotalCents      int64  `json:"total_cents"`
	}

	ConfirmPaymentRequest struct {
		TxHash string `json:"tx_hash"`
	}

	FailPaymentRequest struct {
		Reason string `json:"reason"`
	}

	SalesResponse struct {
		ProductID string `json:"product_id"`
		UnitsSold int64  `json:"units_sold"`
	}

	OnrampSessionRequest struct {
		Address string `json:"address"`
	}

	OnrampSessionResponse struct {
		SessionToken string `json:"session_token"`
	}
)
