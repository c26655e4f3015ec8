package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/service"
	"sewasaathi-backend/internal/utils"
)

type QuotationHandler struct {
	quotationSvc service.QuotationService
}

func NewQuotationHandler(quotationSvc service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationSvc: quotationSvc}
}

func (h *QuotationHandler) CreateOrUpdateQuotation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	var req quotationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var validTill *time.Time
	if req.ValidTill != nil && *req.ValidTill != "" {
		t, err := utils.ParseDate(*req.ValidTill)
		if err != nil {
			writeError(w, domain.NewError(domain.KindValidation, "invalid valid_till %q", *req.ValidTill))
			return
		}
		validTill = &t
	}

	q, err := h.quotationSvc.CreateOrUpdate(r.Context(), actor, req.RentalID, req.Price, validTill)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuotationHandler) AcceptQuotation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	q, rental, err := h.quotationSvc.Accept(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acceptQuotationResponse{Quotation: q, Rental: rental})
}

func (h *QuotationHandler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	quotations, err := h.quotationSvc.ListAll(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(quotations))
}

func (h *QuotationHandler) ListMyQuotations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	quotations, err := h.quotationSvc.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(quotations))
}
