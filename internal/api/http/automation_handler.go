package http

import (
	"context"
	"net/http"
	"time"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/service"
	"sewasaathi-backend/internal/utils"
)

// AutomationHandler triggers the periodic jobs on demand. Runs are idempotent
// for late fees, so an admin may replay a missed night.
type AutomationHandler struct {
	automationSvc service.AutomationService
	now           func() time.Time
}

func NewAutomationHandler(automationSvc service.AutomationService, now func() time.Time) *AutomationHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AutomationHandler{automationSvc: automationSvc, now: now}
}

func (h *AutomationHandler) ApplyLateFees(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "apply-late-fees", h.automationSvc.ApplyLateFees)
}

func (h *AutomationHandler) SendOverdueReminders(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "send-overdue-reminders", h.automationSvc.SendOverdueReminders)
}

func (h *AutomationHandler) run(w http.ResponseWriter, r *http.Request, job string, fn func(ctx context.Context, now time.Time) (int, error)) {
	now := h.now()
	asOf := now
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			writeError(w, domain.NewError(domain.KindValidation, "invalid as_of %q", v))
			return
		}
		// no fees or reminders for days that have not happened
		if t.After(now) {
			writeError(w, domain.NewError(domain.KindValidation, "as_of %s is in the future", v))
			return
		}
		asOf = t
	}

	n, err := fn(r.Context(), asOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, automationResponse{Job: job, Processed: n, AsOf: asOf})
}
