package http

import (
	"net/http"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerService
	bookings  service.BookingService
}

func NewCustomerHandler(customers service.CustomerService, bookings service.BookingService) *CustomerHandler {
	return &CustomerHandler{customers: customers, bookings: bookings}
}

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := &domain.Customer{CenterID: centerID, Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.customers.CreateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customers.GetCustomer(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	if query := r.URL.Query().Get("q"); query != "" {
		customers, err := h.customers.SearchCustomers(r.Context(), centerID, query)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
		return
	}
	page, pageSize := pagination(r)
	customers, total, err := h.customers.ListCustomers(r.Context(), centerID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers, "total_count": total})
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := &domain.Customer{ID: id, CenterID: centerID, Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.customers.UpdateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type bookingRequest struct {
	CustomerID int32  `json:"customer_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Notes      string `json:"notes,omitempty"`
}

func (h *CustomerHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b := &domain.Booking{
		CenterID:   centerID,
		CustomerID: req.CustomerID,
		StartDate:  start,
		EndDate:    end,
		Notes:      req.Notes,
	}
	if err := h.bookings.CreateBooking(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *CustomerHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookings.GetBooking(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *CustomerHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	customerID, err := pathID(r, "customerID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookings.ListBookingsByCustomer(r.Context(), centerID, customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}
