package http

import (
	"net/http"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/service"
)

type PackageHandler struct {
	packages service.DivePackageService
}

func NewPackageHandler(packages service.DivePackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

type createPackageRequest struct {
	CustomerID int32  `json:"customer_id"`
	Name       string `json:"name"`
	TotalDives int32  `json:"total_dives"`
	PriceCents int32  `json:"price_cents"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	var req createPackageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	expiry, err := parseOptionalDate("expiry_date", req.ExpiryDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := &domain.DivePackage{
		CustomerID: req.CustomerID,
		Name:       req.Name,
		TotalDives: req.TotalDives,
		PriceCents: req.PriceCents,
		ExpiryDate: expiry,
	}
	if err := h.packages.CreatePackage(r.Context(), centerID, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.packages.GetPackage(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PackageHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	customerID, err := pathID(r, "customerID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	packages, err := h.packages.ListPackagesByCustomer(r.Context(), centerID, customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": packages})
}

func (h *PackageHandler) CanConsume(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	canConsume, err := h.packages.CanConsumePackage(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"can_consume": canConsume})
}

func (h *PackageHandler) Consume(w http.ResponseWriter, r *http.Request) {
	centerID, ok := mustCenterID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.packages.ConsumePackage(r.Context(), centerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
