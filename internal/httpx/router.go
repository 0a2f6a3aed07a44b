package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	Orders     *OrdersHandler
	Complaints *ComplaintsHandler
	Catalog    *CatalogHandler
	Stream     *StreamHandler
}

// NewRouter builds the API router. Everything under /api except login
// requires a valid bearer token.
func NewRouter(issuer *TokenIssuer, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(issuer.Authenticator)

			r.Get("/products", h.Catalog.ListProducts)
			r.Post("/products", h.Catalog.CreateProduct)
			r.Get("/stations", h.Catalog.ListStations)
			r.Post("/stations", h.Catalog.CreateStation)

			r.Get("/orders", h.Orders.List)
			r.Get("/orders/mine", h.Orders.ListMine)
			// Registered before /orders/{id} so "stream" is not taken
			// for an order id.
			r.Get("/orders/stream", h.Stream.Stream)
			r.Post("/orders", h.Orders.Place)
			r.Get("/orders/{id}", h.Orders.Get)
			r.Put("/orders/{id}/status", h.Orders.UpdateStatus)
			r.Post("/orders/{id}/delivery", h.Orders.AssignDelivery)

			r.Get("/complaints", h.Complaints.List)
			r.Get("/complaints/mine", h.Complaints.ListMine)
			r.Post("/complaints", h.Complaints.Create)
			r.Get("/complaints/{id}", h.Complaints.Get)
			r.Put("/complaints/{id}/status", h.Complaints.UpdateStatus)

			r.Get("/users", h.Auth.ListUsers)
			r.Post("/users", h.Auth.CreateUser)
		})
	})

	return r
}
