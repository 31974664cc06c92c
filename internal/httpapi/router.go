package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the storefront routes.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/menu", handler.GetMenu)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{itemID}", handler.SetQuantity)
		r.Delete("/items/{itemID}", handler.RemoveItem)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", handler.GetCheckout)
		r.Post("/delivery", handler.SubmitDelivery)
		r.Post("/payment", handler.SubmitPayment)
		r.Post("/mpesa", handler.SubmitMobileMoney)
		r.Delete("/mpesa", handler.CancelMobileMoney)
		r.Get("/order", handler.GetOrder)
	})

	return r
}
