package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	financeapp "github.com/retailops/backend/internal/application/finance"
)

// RefundHandler handles refund API endpoints
type RefundHandler struct {
	BaseHandler
	refundService *financeapp.RefundService
}

// NewRefundHandler creates a new RefundHandler
func NewRefundHandler(refundService *financeapp.RefundService) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
	}
}

// Create initiates a refund against a completed return
func (h *RefundHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req financeapp.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.refundService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a refund by its ID
func (h *RefundHandler) GetByID(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	resp, err := h.refundService.GetByID(c.Request.Context(), refundID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves a paginated list of refunds
func (h *RefundHandler) List(c *gin.Context) {
	var filter financeapp.ListRefundsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	refunds, total, err := h.refundService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, refunds, total, filter.Page, filter.PageSize)
}

// ListByReturn retrieves all refunds recorded against one return
func (h *RefundHandler) ListByReturn(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	refunds, err := h.refundService.ListByReturn(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, refunds)
}

// Process moves a pending refund into processing
func (h *RefundHandler) Process(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	resp, err := h.refundService.Process(c.Request.Context(), refundID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete finishes a processing refund and posts the ledger pair
func (h *RefundHandler) Complete(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req financeapp.CompleteRefundRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	resp, err := h.refundService.Complete(c.Request.Context(), refundID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Fail marks a processing refund as failed with a reason
func (h *RefundHandler) Fail(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	var req financeapp.FailRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.refundService.Fail(c.Request.Context(), refundID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a pending or processing refund
func (h *RefundHandler) Cancel(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req financeapp.CancelRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.refundService.Cancel(c.Request.Context(), refundID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetStatistics aggregates refund counts and amounts over a period
func (h *RefundHandler) GetStatistics(c *gin.Context) {
	var query statisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	storeID := query.StoreID
	if storeID == nil {
		scoped, err := getStoreID(c)
		if err != nil {
			h.BadRequest(c, "Invalid store ID in token")
			return
		}
		storeID = scoped
	}

	from, to := query.period()
	stats, err := h.refundService.GetStatistics(c.Request.Context(), storeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
