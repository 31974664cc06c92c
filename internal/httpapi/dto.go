package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qikao/ordering/internal/cart"
	"github.com/qikao/ordering/internal/checkout"
	"github.com/qikao/ordering/internal/engine"
	"github.com/qikao/ordering/internal/menu"
	"github.com/qikao/ordering/internal/money"
)

type menuItemDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

func mapMenuItem(item menu.Item) menuItemDTO {
	return menuItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.Amount.StringFixed(2),
		Currency:    item.Price.Currency.String(),
		Image:       item.Image,
		Category:    item.Category,
	}
}

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type lineItemDTO struct {
	Item      menuItemDTO `json:"item"`
	Quantity  int         `json:"quantity"`
	LineTotal string      `json:"lineTotal"`
}

type totalsDTO struct {
	TotalItems  int    `json:"totalItems"`
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"deliveryFee"`
	VAT         string `json:"vat"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
}

func mapTotals(t cart.Totals, summary money.OrderTotals) totalsDTO {
	return totalsDTO{
		TotalItems:  t.TotalItems,
		Subtotal:    summary.Subtotal.Amount.StringFixed(2),
		DeliveryFee: summary.DeliveryFee.Amount.StringFixed(2),
		VAT:         summary.VAT.Amount.StringFixed(2),
		Total:       summary.Total.Amount.StringFixed(2),
		Currency:    summary.Subtotal.Currency.String(),
	}
}

type cartResponse struct {
	Lines  []lineItemDTO `json:"lines"`
	Totals totalsDTO     `json:"totals"`
}

func mapCart(lines []cart.LineItem, totals cart.Totals, summary money.OrderTotals) cartResponse {
	dtos := make([]lineItemDTO, 0, len(lines))
	for _, line := range lines {
		dtos = append(dtos, lineItemDTO{
			Item:      mapMenuItem(line.Item),
			Quantity:  line.Quantity,
			LineTotal: line.Total().Amount.StringFixed(2),
		})
	}
	return cartResponse{Lines: dtos, Totals: mapTotals(totals, summary)}
}

type checkoutResponse struct {
	Step         string                    `json:"step"`
	DeliveryForm checkout.DeliveryForm     `json:"deliveryForm"`
	Method       string                    `json:"method,omitempty"`
	PromptOpen   bool                      `json:"promptOpen"`
	InFlight     bool                      `json:"inFlight"`
	Draft        checkout.MobileMoneyDraft `json:"mobileMoneyDraft"`
}

type paymentRequest struct {
	Method string `json:"method"`
}

type orderResponse struct {
	OrderID  string        `json:"orderId"`
	Lines    []lineItemDTO `json:"lines"`
	Totals   totalsDTO     `json:"totals"`
	PlacedAt string        `json:"placedAt"`
}

func mapOrder(order checkout.PlacedOrder) orderResponse {
	dtos := make([]lineItemDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		dtos = append(dtos, lineItemDTO{
			Item:      mapMenuItem(line.Item),
			Quantity:  line.Quantity,
			LineTotal: line.Total().Amount.StringFixed(2),
		})
	}
	return orderResponse{
		OrderID: order.OrderID,
		Lines:   dtos,
		Totals: totalsDTO{
			TotalItems:  totalItems(order.Lines),
			Subtotal:    order.Totals.Subtotal.Amount.StringFixed(2),
			DeliveryFee: order.Totals.DeliveryFee.Amount.StringFixed(2),
			VAT:         order.Totals.VAT.Amount.StringFixed(2),
			Total:       order.Totals.Total.Amount.StringFixed(2),
			Currency:    order.Totals.Subtotal.Currency.String(),
		},
		PlacedAt: order.PlacedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func totalItems(lines []cart.LineItem) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeEngineError maps engine and checkout errors to HTTP statuses.
//
// A duplicate commit is deliberately not an error on the wire: the
// first commit is already processing, so the duplicate is answered
// 202 to avoid suggesting a second order exists.
func writeEngineError(w http.ResponseWriter, err error) {
	var unknown *engine.UnknownItemError
	if errors.As(err, &unknown) {
		writeError(w, http.StatusNotFound, "unknown_item", unknown.Error())
		return
	}

	var badQty *cart.InvalidQuantityError
	if errors.As(err, &badQty) {
		writeError(w, http.StatusBadRequest, "invalid_quantity", badQty.Error())
		return
	}

	var ce *checkout.Error
	if errors.As(err, &ce) {
		switch ce.Code {
		case checkout.CodeValidation:
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   "validation",
				Message: ce.Message,
				Fields:  ce.Fields,
			})
		case checkout.CodeInvalidTransition:
			writeError(w, http.StatusConflict, "invalid_transition", ce.Message)
		case checkout.CodeDuplicateCommit:
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
		case checkout.CodeEmptyCart:
			writeError(w, http.StatusConflict, "empty_cart", ce.Message)
		default:
			writeError(w, http.StatusInternalServerError, "internal", ce.Message)
		}
		return
	}

	writeError(w, http.StatusInternalServerError, "internal", err.Error())
}
