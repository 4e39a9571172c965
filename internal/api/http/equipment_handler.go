package http

import (
	"net/http"
	"strconv"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/service"
)

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 50
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = int32(v)
	}
	return page, pageSize
}

type EquipmentHandler struct {
	equipment service.EquipmentService
}

func NewEquipmentHandler(equipment service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment}
}

type equipmentTypeRequest struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	DailyPriceCents  int32  `json:"daily_price_cents"`
	ReplacementCents int32  `json:"replacement_cents"`
}

func (h *EquipmentHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req equipmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t := &domain.EquipmentType{
		CenterID:         centerID,
		Name:             req.Name,
		Category:         req.Category,
		DailyPriceCents:  req.DailyPriceCents,
		ReplacementCents: req.ReplacementCents,
	}
	if err := h.equipment.CreateType(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *EquipmentHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	types, err := h.equipment.ListTypes(r.Context(), centerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

func (h *EquipmentHandler) UpdateType(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req equipmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t := &domain.EquipmentType{
		ID:               id,
		CenterID:         centerID,
		Name:             req.Name,
		Category:         req.Category,
		DailyPriceCents:  req.DailyPriceCents,
		ReplacementCents: req.ReplacementCents,
	}
	if err := h.equipment.UpdateType(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type equipmentItemRequest struct {
	TypeID       int32  `json:"type_id"`
	SerialNumber string `json:"serial_number"`
	Size         string `json:"size,omitempty"`
	Brand        string `json:"brand,omitempty"`
}

func (h *EquipmentHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req equipmentItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item := &domain.EquipmentItem{
		CenterID:     centerID,
		TypeID:       req.TypeID,
		SerialNumber: req.SerialNumber,
		Size:         req.Size,
		Brand:        req.Brand,
	}
	if err := h.equipment.CreateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *EquipmentHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.equipment.GetItem(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *EquipmentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	page, pageSize := pagination(r)
	var typeID int32
	if v, err := strconv.Atoi(r.URL.Query().Get("type_id")); err == nil && v > 0 {
		typeID = int32(v)
	}
	items, total, err := h.equipment.ListItems(r.Context(), centerID, typeID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total_count": total})
}

func (h *EquipmentHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req equipmentItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item := &domain.EquipmentItem{
		ID:           id,
		CenterID:     centerID,
		TypeID:       req.TypeID,
		SerialNumber: req.SerialNumber,
		Size:         req.Size,
		Brand:        req.Brand,
	}
	if err := h.equipment.UpdateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
