package http

import (
	"net/http"
	"strconv"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/service"

	"github.com/gorilla/mux"
)

// mustCenterID resolves the caller's tenant scope or writes a 401.
func mustCenterID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated", Kind: "unauthorized"})
		return 0, false
	}
	return claims.CenterID, true
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return int32(id), nil
}

type AssignmentHandler struct {
	assignments  service.AssignmentService
	availability service.AvailabilityService
}

func NewAssignmentHandler(assignments service.AssignmentService, availability service.AvailabilityService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, availability: availability}
}

type createAssignmentRequest struct {
	CustomerID            int32  `json:"customer_id"`
	BookingID             *int32 `json:"booking_id,omitempty"`
	BasketID              *int32 `json:"basket_id,omitempty"`
	Source                string `json:"source"`
	EquipmentItemID       *int32 `json:"equipment_item_id,omitempty"`
	CustomerEquipmentDesc string `json:"customer_equipment_desc,omitempty"`
	CheckoutDate          string `json:"checkout_date,omitempty"`
	ReturnDate            string `json:"return_date,omitempty"`
	Status                string `json:"status,omitempty"`
	PriceCents            int32  `json:"price_cents"`
}

func (req *createAssignmentRequest) toInput() (service.CreateAssignmentInput, error) {
	checkout, err := parseOptionalDate("checkout_date", req.CheckoutDate)
	if err != nil {
		return service.CreateAssignmentInput{}, err
	}
	returnDate, err := parseOptionalDate("return_date", req.ReturnDate)
	if err != nil {
		return service.CreateAssignmentInput{}, err
	}
	return service.CreateAssignmentInput{
		CustomerID:            req.CustomerID,
		BookingID:             req.BookingID,
		BasketID:              req.BasketID,
		Source:                domain.EquipmentSource(req.Source),
		EquipmentItemID:       req.EquipmentItemID,
		CustomerEquipmentDesc: req.CustomerEquipmentDesc,
		CheckoutDate:          checkout,
		ReturnDate:            returnDate,
		Status:                domain.AssignmentStatus(req.Status),
		PriceCents:            req.PriceCents,
	}, nil
}

type damageRequest struct {
	Reported          bool   `json:"reported"`
	Description       string `json:"description,omitempty"`
	CostCents         int32  `json:"cost_cents"`
	ChargeCustomer    bool   `json:"charge_customer"`
	ChargeAmountCents int32  `json:"charge_amount_cents"`
}

func (d *damageRequest) toInput() *domain.DamageInput {
	if d == nil {
		return nil
	}
	return &domain.DamageInput{
		Reported:          d.Reported,
		Description:       d.Description,
		CostCents:         d.CostCents,
		ChargeCustomer:    d.ChargeCustomer,
		ChargeAmountCents: d.ChargeAmountCents,
	}
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	assignment, err := h.assignments.CreateAssignment(r.Context(), centerID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	assignment, err := h.assignments.GetAssignment(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) ListByBooking(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	assignments, err := h.assignments.ListAssignmentsByBooking(r.Context(), centerID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (h *AssignmentHandler) ListActiveByItem(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	assignments, err := h.assignments.ListActiveAssignmentsByItem(r.Context(), centerID, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

type returnAssignmentRequest struct {
	Damage *damageRequest `json:"damage,omitempty"`
}

func (h *AssignmentHandler) Return(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req returnAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	assignment, err := h.assignments.ReturnAssignment(r.Context(), centerID, id, req.Damage.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	assignment, err := h.assignments.MarkAssignmentLost(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

type damageChargeRequest struct {
	AmountCents int32 `json:"amount_cents"`
}

func (h *AssignmentHandler) AttachDamageCharge(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req damageChargeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	assignment, err := h.assignments.AttachDamageCharge(r.Context(), centerID, id, req.AmountCents)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

type bulkCreateRequest struct {
	Assignments []createAssignmentRequest `json:"assignments"`
}

func (h *AssignmentHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req bulkCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	inputs := make([]service.CreateAssignmentInput, len(req.Assignments))
	for i, a := range req.Assignments {
		input, err := a.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		inputs[i] = input
	}
	result, err := h.assignments.BulkCreateAssignments(r.Context(), centerID, inputs)
	if err != nil {
		if result != nil {
			// Nothing was persisted; report every per-element reason.
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type bulkReturnRequest struct {
	IDs    []int32                 `json:"ids"`
	Damage map[int32]damageRequest `json:"damage,omitempty"`
}

func (h *AssignmentHandler) BulkReturn(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req bulkReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	damageByID := make(map[int32]domain.DamageInput, len(req.Damage))
	for id, d := range req.Damage {
		damageByID[id] = *d.toInput()
	}
	result, err := h.assignments.BulkReturnAssignments(r.Context(), centerID, req.IDs, damageByID)
	if err != nil {
		if result != nil {
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type checkAvailabilityRequest struct {
	EquipmentItemID int32  `json:"equipment_item_id"`
	From            string `json:"from"`
	To              string `json:"to"`
}

func (h *AssignmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req checkAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	from, err := parseDate("from", req.From)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDate("to", req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	available, conflicts, err := h.availability.CheckAvailability(r.Context(), centerID, req.EquipmentItemID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.AvailabilityResult{
		EquipmentItemID: req.EquipmentItemID,
		Available:       available,
		Conflicts:       conflicts,
	})
}

type bulkCheckAvailabilityRequest struct {
	Checks []checkAvailabilityRequest `json:"checks"`
}

func (h *AssignmentHandler) BulkCheckAvailability(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req bulkCheckAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reqs := make([]service.AvailabilityRequest, len(req.Checks))
	for i, c := range req.Checks {
		from, err := parseDate("from", c.From)
		if err != nil {
			writeError(w, r, err)
			return
		}
		to, err := parseDate("to", c.To)
		if err != nil {
			writeError(w, r, err)
			return
		}
		reqs[i] = service.AvailabilityRequest{EquipmentItemID: c.EquipmentItemID, From: from, To: to}
	}
	results, err := h.availability.BulkCheckAvailability(r.Context(), centerID, reqs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
