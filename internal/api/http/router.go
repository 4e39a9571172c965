package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"divecenter-backend/internal/security"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	Assignment *AssignmentHandler
	Basket     *BasketHandler
	Package    *PackageHandler
	Equipment  *EquipmentHandler
	Customer   *CustomerHandler
}

// NewRouter builds the full API route table. Everything under /api/v1
// except /auth requires a valid access token.
func NewRouter(h Handlers, tokens security.TokenManager) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(tokens))

	protected.HandleFunc("/assignments", h.Assignment.Create).Methods(http.MethodPost)
	protected.HandleFunc("/assignments/bulk", h.Assignment.BulkCreate).Methods(http.MethodPost)
	protected.HandleFunc("/assignments/bulk-return", h.Assignment.BulkReturn).Methods(http.MethodPost)
	protected.HandleFunc("/assignments/{id:[0-9]+}", h.Assignment.Get).Methods(http.MethodGet)
	protected.HandleFunc("/assignments/{id:[0-9]+}/return", h.Assignment.Return).Methods(http.MethodPost)
	protected.HandleFunc("/assignments/{id:[0-9]+}/lost", h.Assignment.MarkLost).Methods(http.MethodPost)
	protected.HandleFunc("/assignments/{id:[0-9]+}/damage-charge", h.Assignment.AttachDamageCharge).Methods(http.MethodPost)

	protected.HandleFunc("/availability/check", h.Assignment.CheckAvailability).Methods(http.MethodPost)
	protected.HandleFunc("/availability/bulk-check", h.Assignment.BulkCheckAvailability).Methods(http.MethodPost)

	protected.HandleFunc("/baskets", h.Basket.Create).Methods(http.MethodPost)
	protected.HandleFunc("/baskets", h.Basket.List).Methods(http.MethodGet)
	protected.HandleFunc("/baskets/{id:[0-9]+}", h.Basket.Get).Methods(http.MethodGet)
	protected.HandleFunc("/baskets/{id:[0-9]+}/return", h.Basket.Return).Methods(http.MethodPost)

	protected.HandleFunc("/packages", h.Package.Create).Methods(http.MethodPost)
	protected.HandleFunc("/packages/{id:[0-9]+}", h.Package.Get).Methods(http.MethodGet)
	protected.HandleFunc("/packages/{id:[0-9]+}/can-consume", h.Package.CanConsume).Methods(http.MethodGet)
	protected.HandleFunc("/packages/{id:[0-9]+}/consume", h.Package.Consume).Methods(http.MethodPost)

	protected.HandleFunc("/equipment/types", h.Equipment.CreateType).Methods(http.MethodPost)
	protected.HandleFunc("/equipment/types", h.Equipment.ListTypes).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/types/{id:[0-9]+}", h.Equipment.UpdateType).Methods(http.MethodPut)
	protected.HandleFunc("/equipment/items", h.Equipment.CreateItem).Methods(http.MethodPost)
	protected.HandleFunc("/equipment/items", h.Equipment.ListItems).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/items/{id:[0-9]+}", h.Equipment.GetItem).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/items/{id:[0-9]+}", h.Equipment.UpdateItem).Methods(http.MethodPut)
	protected.HandleFunc("/equipment/items/{id:[0-9]+}/assignments", h.Assignment.ListActiveByItem).Methods(http.MethodGet)

	protected.HandleFunc("/customers", h.Customer.Create).Methods(http.MethodPost)
	protected.HandleFunc("/customers", h.Customer.List).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{id:[0-9]+}", h.Customer.Get).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{id:[0-9]+}", h.Customer.Update).Methods(http.MethodPut)
	protected.HandleFunc("/customers/{customerID:[0-9]+}/bookings", h.Customer.ListBookings).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{customerID:[0-9]+}/packages", h.Package.ListByCustomer).Methods(http.MethodGet)

	protected.HandleFunc("/bookings", h.Customer.CreateBooking).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id:[0-9]+}", h.Customer.GetBooking).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingID:[0-9]+}/assignments", h.Assignment.ListByBooking).Methods(http.MethodGet)

	return r
}
