package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	returnsapp "github.com/retailops/backend/internal/application/returns"
)

// ReturnHandler handles product return API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *returnsapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *returnsapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// statisticsQuery bounds a statistics request to a period and optional store
type statisticsQuery struct {
	StoreID  *uuid.UUID `form:"store_id"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// period resolves the requested window, defaulting to the last 30 days
func (q statisticsQuery) period() (time.Time, time.Time) {
	to := time.Now()
	if q.DateTo != nil {
		// include the whole end day
		to = q.DateTo.Add(24*time.Hour - time.Nanosecond)
	}
	from := to.AddDate(0, 0, -30)
	if q.DateFrom != nil {
		from = *q.DateFrom
	}
	return from, to
}

// Create registers a new product return request
func (h *ReturnHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req returnsapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a product return by its ID
func (h *ReturnHandler) GetByID(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	resp, err := h.returnService.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List retrieves a paginated list of product returns
func (h *ReturnHandler) List(c *gin.Context) {
	var filter returnsapp.ListReturnsFilter
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

	returns, total, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, returns, total, filter.Page, filter.PageSize)
}

// RecordQualityCheck records an inspection outcome on a pending return
func (h *ReturnHandler) RecordQualityCheck(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req returnsapp.QualityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.RecordQualityCheck(c.Request.Context(), returnID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve approves a pending return, optionally lowering the refund amount
func (h *ReturnHandler) Approve(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req returnsapp.ApproveReturnRequest
	// Allow empty body
	_ = c.ShouldBindJSON(&req)

	resp, err := h.returnService.Approve(c.Request.Context(), returnID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject rejects a pending return with a reason
func (h *ReturnHandler) Reject(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	var req returnsapp.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Reject(c.Request.Context(), returnID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Process starts processing an approved return, restoring inventory
func (h *ReturnHandler) Process(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	resp, err := h.returnService.Process(c.Request.Context(), returnID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete marks a processing return as completed
func (h *ReturnHandler) Complete(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	resp, err := h.returnService.Complete(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetStatistics aggregates return counts and values over a period
func (h *ReturnHandler) GetStatistics(c *gin.Context) {
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
	stats, err := h.returnService.GetStatistics(c.Request.Context(), storeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
