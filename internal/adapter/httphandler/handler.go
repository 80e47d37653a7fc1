package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
)

// A CheckoutService is the full inbound checkout surface.
type CheckoutService interface {
	port.CheckoutStarter
	port.AddressTaker
	port.ShippingQuoter
	port.TermsAccepter
	port.PaymentSubmitter
	port.PaymentConfirmer
}

// A SalesReader serves accumulated units-sold counts per product.
type SalesReader interface {
	UnitsSold(productID string) (int64, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeDomainErr maps domain sentinels onto HTTP statuses. Anything
// unrecognized is an internal error and the detail stays in the logs.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "checkout session not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrStockConflict):
		http.Error(w, "requested quantity exceeds stock", http.StatusConflict)
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrNoShippingQuote),
		errors.Is(err, domain.ErrTermsNotAccepted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrUnknownProduct),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrUnknownAsset),
		errors.Is(err, domain.ErrNoPayer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPriceUnavailable):
		http.Error(w, "asset price unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type ProductsHandler struct {
	catalog port.CatalogReader
	saver   port.ProductsSaver
}

func RegisterProducts(
	mux *http.ServeMux, catalog port.CatalogReader, saver port.ProductsSaver,
) {
	h := ProductsHandler{catalog, saver}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("POST /v1/products", h.PostProducts)
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	ps, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		http.Error(w, "failed to list products", http.StatusServiceUnavailable)
		log.Error("failed to list products", "err", err)
		return
	}

	if len(ps) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := writeJSON(w, http.StatusOK, h.toDTO(ps)); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h ProductsHandler) PostProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProducts"
	log := slog.With("op", op)

	var ps []Product
	err := json.NewDecoder(r.Body).Decode(&ps)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err = h.saver.SaveProducts(r.Context(), h.toDomain(ps))
	if err != nil {
		http.Error(
			w, "failed to accept products", http.StatusServiceUnavailable,
		)
		log.Error("failed to save products", "err", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	log.Info("accepted", "nProducts", len(ps))
}

func (h ProductsHandler) toDomain(ps []Product) (domainPs []domain.Product) {
	for _, p := range ps {
		domainPs = append(domainPs, domain.Product{
			ProductID:      p.ProductID,
			Name:           p.Name,
			Category:       p.Category,
			UnitPriceCents: p.UnitPriceCents,
			StockCount:     p.StockCount,
			WeightOz:       p.WeightOz,
		})
	}
	return domainPs
}

func (h ProductsHandler) toDTO(ps []domain.Product) (out []Product) {
	for _, p := range ps {
		out = append(out, Product{
			ProductID:      p.ProductID,
			Name:           p.Name,
			Category:       p.Category,
			UnitPriceCents: p.UnitPriceCents,
			StockCount:     p.StockCount,
			WeightOz:       p.WeightOz,
		})
	}
	return out
}

type CheckoutHandler struct {
	svc CheckoutService
}

func RegisterCheckout(mux *http.ServeMux, svc CheckoutService) {
	h := CheckoutHandler{svc}
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
	mux.HandleFunc("POST /v1/checkout/{id}/address", h.PostAddress)
	mux.HandleFunc("POST /v1/checkout/{id}/quote", h.PostQuote)
	mux.HandleFunc("POST /v1/checkout/{id}/terms", h.PostTerms)
	mux.HandleFunc("POST /v1/checkout/{id}/payment", h.PostPayment)
	mux.HandleFunc("POST /v1/checkout/{id}/confirm", h.PostConfirm)
	mux.HandleFunc("POST /v1/checkout/{id}/fail", h.PostFail)
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	var req StartCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	lines := make([]domain.CartLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domain.CartLine{
			ProductID: l.ProductID, Quantity: l.Quantity,
		})
	}

	cart, err := domain.NewCart(lines...)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("rejected cart", "err", err)
		return
	}

	cs, err := h.svc.StartCheckout(r.Context(), cart)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to start checkout", "err", err)
		return
	}

	res := StartCheckoutResponse{SessionID: cs.ID, State: cs.State.String()}
	if err := writeJSON(w, http.StatusCreated, res); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}
	log.Info("checkout started", "sessionID", cs.ID)
}

func (h CheckoutHandler) PostAddress(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostAddress"
	log := slog.With("op", op, "sessionID", r.PathValue("id"))

	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	addr := domain.Address{
		Name:   req.Name,
		Email:  req.Email,
		Street: req.Street,
		City:   req.City,
		State:  req.State,
		ZIP:    req.ZIP,
	}

	err := h.svc.EnterAddress(r.Context(), r.PathValue("id"), addr)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("rejected address", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("address entered")
}

func (h CheckoutHandler) PostQuote(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostQuote"
	log := slog.With("op", op, "sessionID", r.PathValue("id"))

	shippingCents, err := h.svc.QuoteShipping(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to quote shipping", "err", err)
		return
	}

	res := QuoteResponse{ShippingCents: shippingCents}
	if err := writeJSON(w, http.StatusOK, res); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}
	log.Info("shipping quoted", "shippingCents", shippingCents)
}

func (h CheckoutHandler) PostTerms(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostTerms"
	log := slog.With("op", op, "sessionID", r.PathValue("id"))

	err := h.svc.AcceptTerms(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to accept terms", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("terms accepted")
}

func (h CheckoutHandler) PostPayment(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostPayment"
	log := slog.With("op", op, "sessionID", r.PathValue("id"))

	var req SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	asset, err := domain.ParseAsset(req.Asset)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("rejected asset", "err", err)
		return
	}

	instruction, total, err := h.svc.SubmitPayment(
		r.Context(), r.PathValue("id"), req.PayerAddress, asset,
	)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to submit payment", "err", err)
		return
	}

	res := SubmitPaymentResponse{
		Recipient:       instruction.Recipient,
		AssetContract:   instruction.AssetContract,
		Asset:           string(instruction.Asset),
		AmountBaseUnits: instruction.AmountBaseUnits.String(),
		SubtotalCents:   total.SubtotalCents,
		DiscountCents:   total.DiscountCents,
		ShippingCents:   total.ShippingCents,
		TotalCents:      total.TotalCents,
	}
	if err := writeJSON(w, http.StatusOK, res); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}
	log.Info("payment submitted", "asset", asset, "totalCents", total.TotalCents)
}

func (h CheckoutHandler) PostConfirm(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostConfirm"
	log := slog.With("op", op, "sessionID", r.PathValue("id"))

	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if req.TxHash == "" {
		http.Error(w, "tx_hash is required", http.StatusBadRequest)
		return
	}

	err := h.svc.ConfirmPayment(r.Context(), r.PathValue("id"), req.TxHash)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to confirm payment", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("payment confirmed", "txHash", req.TxHash)
}

func (h CheckoutHandler) PostFail(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostFail"
	log := slog.With("op", op, "sessionID", r.PathValue("id"))

	var req FailPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err := h.svc.FailPayment(r.Context(), r.PathValue("id"), req.Reason)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to mark payment failed", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("payment failed", "reason", req.Reason)
}

type SalesHandler struct {
	sales SalesReader
}

func RegisterSales(mux *http.ServeMux, sales SalesReader) {
	h := SalesHandler{sales}
	mux.HandleFunc("GET /v1/sales/{productID}", h.GetSales)
}

func (h SalesHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	const op = "SalesHandler.GetSales"
	productID := r.PathValue("productID")
	log := slog.With("op", op, "productID", productID)

	n, err := h.sales.UnitsSold(productID)
	if err != nil {
		http.Error(w, "failed to read sales", http.StatusServiceUnavailable)
		log.Error("failed to read sales", "err", err)
		return
	}

	res := SalesResponse{ProductID: productID, UnitsSold: n}
	if err := writeJSON(w, http.StatusOK, res); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

type OnrampHandler struct {
	issuer port.SessionTokenIssuer
}

func RegisterOnramp(mux *http.ServeMux, issuer port.SessionTokenIssuer) {
	h := OnrampHandler{issuer}
	mux.HandleFunc("POST /v1/onramp/session", h.PostSession)
}

func (h OnrampHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	const op = "OnrampHandler.PostSession"
	log := slog.With("op", op)

	var req OnrampSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if req.Address == "" {
		http.Error(w, "address is required", http.StatusBadRequest)
		return
	}

	token, err := h.issuer.SessionToken(r.Context(), req.Address)
	if err != nil {
		http.Error(
			w, "failed to create onramp session", http.StatusBadGateway,
		)
		log.Error("failed to create onramp session", "err", err)
		return
	}

	res := OnrampSessionResponse{SessionToken: token}
	if err := writeJSON(w, http.StatusOK, res); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
