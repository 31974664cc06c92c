// Package httpapi exposes the ordering engine over HTTP for the
// storefront UI. Every route is scoped to the caller's session
// cookie; one engine instance serves each session.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qikao/ordering/internal/checkout"
)

// Handler serves the storefront API.
type Handler struct {
	sessions *Sessions
}

// NewHandler creates a handler over the session registry.
func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// GetMenu lists the catalog, optionally filtered by ?category= and
// searched by ?q=.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	catalog := h.sessions.catalog

	items := catalog.Filter(r.URL.Query().Get("category"))
	if q := r.URL.Query().Get("q"); q != "" {
		filtered := items[:0:0]
		for _, item := range catalog.Search(q) {
			for _, in := range items {
				if in.ID == item.ID {
					filtered = append(filtered, item)
					break
				}
			}
		}
		items = filtered
	}

	dtos := make([]menuItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, mapMenuItem(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": dtos})
}

// GetCart returns the session's lines and derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.ForRequest(w, r)
	writeJSON(w, http.StatusOK, mapCart(e.Lines(), e.Totals(), e.OrderSummary()))
}

// AddItem adds a catalog item to the cart. Quantity defaults to 1.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	e := h.sessions.ForRequest(w, r)
	if err := e.AddItem(req.ItemID, req.Quantity); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(e.Lines(), e.Totals(), e.OrderSummary()))
}

// SetQuantity sets a line's quantity; zero removes the line.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	e := h.sessions.ForRequest(w, r)
	e.SetQuantity(chi.URLParam(r, "itemID"), req.Quantity)
	writeJSON(w, http.StatusOK, mapCart(e.Lines(), e.Totals(), e.OrderSummary()))
}

// RemoveItem deletes a line. Idempotent.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.ForRequest(w, r)
	e.RemoveItem(chi.URLParam(r, "itemID"))
	writeJSON(w, http.StatusOK, mapCart(e.Lines(), e.Totals(), e.OrderSummary()))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.ForRequest(w, r)
	e.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

// GetCheckout reports the flow state the UI renders from.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.ForRequest(w, r)

	writeJSON(w, http.StatusOK, checkoutResponse{
		Step:         e.CurrentStep().String(),
		DeliveryForm: e.DeliveryDetails(),
		PromptOpen:   e.PromptOpen(),
		InFlight:     e.InFlight(),
		Draft:        e.Draft(),
	})
}

// SubmitDelivery submits the delivery form.
func (h *Handler) SubmitDelivery(w http.ResponseWriter, r *http.Request) {
	var form checkout.DeliveryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	e := h.sessions.ForRequest(w, r)
	if err := e.SubmitDelivery(form); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"step": e.CurrentStep().String()})
}

// SubmitPayment submits the chosen payment method. Card payments go
// straight to processing; mobile money opens the confirmation prompt.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	e := h.sessions.ForRequest(w, r)
	if err := e.SubmitPayment(checkout.PaymentMethod(req.Method)); err != nil {
		writeEngineError(w, err)
		return
	}

	if e.PromptOpen() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "confirmation_required"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
}

// SubmitMobileMoney submits the confirmation-code sub-flow and starts
// the simulated confirmation.
func (h *Handler) SubmitMobileMoney(w http.ResponseWriter, r *http.Request) {
	var draft checkout.MobileMoneyDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	e := h.sessions.ForRequest(w, r)
	if err := e.SubmitMobileMoney(draft); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
}

// CancelMobileMoney closes the prompt and returns to payment.
func (h *Handler) CancelMobileMoney(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.ForRequest(w, r)
	e.CancelMobileMoney()
	w.WriteHeader(http.StatusNoContent)
}

// GetOrder returns the placed order, or 404 until one exists.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	e := h.sessions.ForRequest(w, r)

	order, ok := e.Order()
	if !ok {
		writeError(w, http.StatusNotFound, "no_order", "no order has been placed in this session")
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
