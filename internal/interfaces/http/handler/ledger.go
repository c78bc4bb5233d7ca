package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	financeapp "github.com/retailops/backend/internal/application/finance"
)

// LedgerHandler handles accounting report API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// periodQuery bounds a report request to a reporting period, optionally
// scoped to one store
type periodQuery struct {
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	StoreID  *uuid.UUID `form:"store_id"`
}

// period resolves the requested window, defaulting to the current month
func (q periodQuery) period() (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if q.DateFrom != nil {
		from = *q.DateFrom
	}
	if q.DateTo != nil {
		// include the whole end day
		to = q.DateTo.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to
}

// GetTrialBalance summarizes completed postings per account over a period
func (h *LedgerHandler) GetTrialBalance(c *gin.Context) {
	var query periodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to := query.period()
	report, err := h.ledgerService.GetTrialBalance(c.Request.Context(), query.StoreID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetAccountLedger returns the running-balance statement of one account
func (h *LedgerHandler) GetAccountLedger(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var query periodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to := query.period()
	ledger, err := h.ledgerService.GetAccountLedger(c.Request.Context(), accountID, query.StoreID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ledger)
}
