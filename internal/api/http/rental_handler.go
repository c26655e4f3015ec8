package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc    service.RentalService
	quotationSvc service.QuotationService
}

func NewRentalHandler(rentalSvc service.RentalService, quotationSvc service.QuotationService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, quotationSvc: quotationSvc}
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req createRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentalSvc.Create(r.Context(), actor, service.CreateRentalInput{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		SlotID:     req.AvailabilityID,
		StartDate:  start,
		EndDate:    end,
		Price:      req.Price,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	rentals, err := h.rentalSvc.ListAll(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rentals))
}

func (h *RentalHandler) ListMyRentals(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	rentals, err := h.rentalSvc.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rentals))
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	rental, err := h.rentalSvc.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) UpdateRentalStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	to, err := domain.ParseRentalStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentalSvc.Transition(r.Context(), actor, mux.Vars(r)["id"], to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) GetRentalHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	history, err := h.rentalSvc.History(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(history))
}

func (h *RentalHandler) GetRentalReturn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	ret, err := h.rentalSvc.Return(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (h *RentalHandler) GetRentalQuotation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	q, err := h.quotationSvc.GetByRental(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
