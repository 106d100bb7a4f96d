package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/store"
	"github.com/iwvelando/deal-analyzer/pkg/datetime"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
	"github.com/iwvelando/deal-analyzer/pkg/output"
	"github.com/iwvelando/deal-analyzer/pkg/validation"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxScheduleMonths caps schedule requests at 50 years.
const maxScheduleMonths = 600

type saveDealRequest struct {
	Name     string                 `json:"name"`
	Deal     analysis.DealInput     `json:"deal"`
	Scenario analysis.ScenarioInput `json:"scenario"`
}

type listDealsResponse struct {
	Deals []store.SavedDeal `json:"deals"`
}

type loanSchedule struct {
	Name     string          `json:"name,omitempty"`
	Months   int             `json:"months"`
	Payments []loans.Payment `json:"payments"`
}

type scheduleResponse struct {
	Loans []loanSchedule `json:"loans"`
}

func (h *handler) handleListDeals(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListDeals"

	deals, err := h.store.List(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to list deals: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, listDealsResponse{Deals: deals})
}

func (h *handler) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	h.saveDeal(w, r, uuid.Nil, http.StatusCreated, "server.handleCreateDeal")
}

func (h *handler) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateDeal"

	id, ok := h.dealID(w, r, op)
	if !ok {
		return
	}
	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.saveDeal(w, r, id, http.StatusOK, op)
}

func (h *handler) saveDeal(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int, op string) {
	var req saveDealRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "deal name is required", op)
		return
	}
	if err := validation.ValidateDeal(req.Deal, req.Scenario); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	saved, err := h.store.Save(r.Context(), store.SavedDeal{
		ID:       id,
		Name:     req.Name,
		Deal:     req.Deal,
		Scenario: req.Scenario,
	})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save deal: %v", err), op)
		return
	}

	h.logger.Info("deal saved",
		zap.String("op", op),
		zap.String("id", saved.ID.String()),
		zap.String("name", saved.Name),
	)
	h.writeJSON(w, status, saved)
}

func (h *handler) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetDeal"

	saved, ok := h.loadDeal(w, r, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteDeal"

	id, ok := h.dealID(w, r, op)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSavedAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSavedAnalysis"

	saved, ok := h.loadDeal(w, r, op)
	if !ok {
		return
	}
	h.respondAnalysis(r.Context(), w, saved.Deal, saved.Scenario, op)
}

func (h *handler) handleSavedDebt(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSavedDebt"

	saved, ok := h.loadDeal(w, r, op)
	if !ok {
		return
	}

	asOf := h.now()
	if value := strings.TrimSpace(r.URL.Query().Get("asOf")); value != "" {
		parsed, err := datetime.ParseMonth(value)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid asOf: %v", err), op)
			return
		}
		asOf = parsed
	}

	report, err := analysis.CurrentDebt(saved.Deal.Loans, asOf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute current debt: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// handleSavedSchedule returns each loan's month-by-month amortization over
// its rate lock, or over ?months= when given.
func (h *handler) handleSavedSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSavedSchedule"

	saved, ok := h.loadDeal(w, r, op)
	if !ok {
		return
	}

	months := 0
	if value := strings.TrimSpace(r.URL.Query().Get("months")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 || parsed > maxScheduleMonths {
			h.respondErrorWithOp(w, http.StatusBadRequest,
				fmt.Sprintf("months must be between 1 and %d", maxScheduleMonths), op)
			return
		}
		months = parsed
	}

	generator := loans.NewScheduleGenerator(h.logger)
	resp := scheduleResponse{Loans: make([]loanSchedule, 0, len(saved.Deal.Loans))}
	for _, loan := range saved.Deal.Loans {
		horizon := months
		if horizon == 0 {
			horizon = loan.HorizonMonths()
		}
		payments, err := generator.GenerateSchedule(loan, horizon)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		resp.Loans = append(resp.Loans, loanSchedule{Name: loan.Name, Months: horizon, Payments: payments})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSavedExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSavedExport"

	saved, ok := h.loadDeal(w, r, op)
	if !ok {
		return
	}

	report := output.Report{
		Name:     saved.Name,
		Metrics:  h.engine.Analyze(saved.Deal, saved.Scenario),
		Warnings: validation.DealWarnings(saved.Deal),
	}
	if debt, err := analysis.CurrentDebt(saved.Deal.Loans, h.now()); err == nil {
		report.Debt = &debt
	} else {
		h.logger.Warn("skipping current debt in export", zap.String("op", op), zap.Error(err))
	}

	workbook, err := output.BuildWorkbook(report)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build workbook: %v", err), op)
		return
	}
	defer func() {
		if closeErr := workbook.Close(); closeErr != nil {
			h.logger.Warn("failed to close workbook", zap.String("op", op), zap.Error(closeErr))
		}
	}()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "deal-"+saved.ID.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if err := workbook.Write(w); err != nil {
		h.logger.Error("failed to write workbook", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) dealID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid deal id %q", raw), op)
		return uuid.Nil, false
	}
	return id, true
}

func (h *handler) loadDeal(w http.ResponseWriter, r *http.Request, op string) (store.SavedDeal, bool) {
	id, ok := h.dealID(w, r, op)
	if !ok {
		return store.SavedDeal{}, false
	}
	saved, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, op)
		return store.SavedDeal{}, false
	}
	return saved, true
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("deal store failure: %v", err), op)
}
