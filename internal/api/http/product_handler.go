package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sewasaathi-backend/internal/service"
)

type ProductHandler struct {
	availabilitySvc service.AvailabilityService
}

func NewProductHandler(availabilitySvc service.AvailabilityService) *ProductHandler {
	return &ProductHandler{availabilitySvc: availabilitySvc}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	product := req.toDomain()
	if err := h.availabilitySvc.CreateProduct(r.Context(), actor, product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.availabilitySvc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req addSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	slot, err := h.availabilitySvc.AddSlot(r.Context(), actor, mux.Vars(r)["id"], start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (h *ProductHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.availabilitySvc.ListSlots(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
