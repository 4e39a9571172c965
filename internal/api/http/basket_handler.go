package http

import (
	"net/http"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/service"
)

type BasketHandler struct {
	baskets service.BasketService
}

func NewBasketHandler(baskets service.BasketService) *BasketHandler {
	return &BasketHandler{baskets: baskets}
}

type createBasketRequest struct {
	CustomerID         int32                     `json:"customer_id"`
	BookingID          *int32                    `json:"booking_id,omitempty"`
	CheckoutDate       string                    `json:"checkout_date,omitempty"`
	ExpectedReturnDate string                    `json:"expected_return_date,omitempty"`
	Items              []createAssignmentRequest `json:"items"`
}

func (h *BasketHandler) Create(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req createBasketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	checkout, err := parseOptionalDate("checkout_date", req.CheckoutDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expectedReturn, err := parseOptionalDate("expected_return_date", req.ExpectedReturnDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]service.CreateAssignmentInput, len(req.Items))
	for i, item := range req.Items {
		input, err := item.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}
		items[i] = input
	}

	basket, result, err := h.baskets.CreateBasket(r.Context(), centerID, service.CreateBasketInput{
		CustomerID:         req.CustomerID,
		BookingID:          req.BookingID,
		CheckoutDate:       checkout,
		ExpectedReturnDate: expectedReturn,
		Items:              items,
	})
	if err != nil {
		if result != nil {
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"basket":  basket,
		"created": result.Created,
		"failed":  result.Failed,
	})
}

func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	basket, members, err := h.baskets.GetBasket(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"basket": basket, "members": members})
}

func (h *BasketHandler) List(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	page, pageSize := pagination(r)
	baskets, total, err := h.baskets.ListBaskets(r.Context(), centerID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"baskets": baskets, "total_count": total})
}

type returnBasketRequest struct {
	ItemIDs []int32                 `json:"item_ids,omitempty"`
	Damage  map[int32]damageRequest `json:"damage,omitempty"`
}

func (h *BasketHandler) Return(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req returnBasketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	damageByID := make(map[int32]domain.DamageInput, len(req.Damage))
	for itemID, d := range req.Damage {
		damageByID[itemID] = *d.toInput()
	}
	basket, err := h.baskets.ReturnBasket(r.Context(), centerID, id, req.ItemIDs, damageByID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, basket)
}
