package router

import (
	"github.com/gin-gonic/gin"

	"github.com/retailops/backend/internal/interfaces/http/handler"
)

// Handlers collects the HTTP handlers the API exposes
type Handlers struct {
	Returns *handler.ReturnHandler
	Refunds *handler.RefundHandler
	Ledger  *handler.LedgerHandler
	System  *handler.SystemHandler
}

// Router manages versioned API route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Use adds middleware applied to every versioned API route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Setup registers all API routes with the engine
func (r *Router) Setup(h Handlers) {
	api := r.engine.Group("/api/" + r.apiVersion)
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}

	if h.Returns != nil {
		registerReturnRoutes(api, h.Returns, h.Refunds)
	}
	if h.Refunds != nil || h.Ledger != nil {
		registerFinanceRoutes(api, h.Refunds, h.Ledger)
	}
	if h.System != nil {
		registerSystemRoutes(api, h.System)
	}
}

// registerReturnRoutes wires the product return lifecycle endpoints
func registerReturnRoutes(api *gin.RouterGroup, returns *handler.ReturnHandler, refunds *handler.RefundHandler) {
	group := api.Group("/returns")

	group.POST("", returns.Create)
	group.GET("", returns.List)
	group.GET("/statistics", returns.GetStatistics)
	group.GET("/:id", returns.GetByID)
	group.POST("/:id/quality-check", returns.RecordQualityCheck)
	group.POST("/:id/approve", returns.Approve)
	group.POST("/:id/reject", returns.Reject)
	group.POST("/:id/process", returns.Process)
	group.POST("/:id/complete", returns.Complete)

	if refunds != nil {
		group.GET("/:id/refunds", refunds.ListByReturn)
	}
}

// registerFinanceRoutes wires the refund lifecycle and accounting reports
func registerFinanceRoutes(api *gin.RouterGroup, refunds *handler.RefundHandler, ledger *handler.LedgerHandler) {
	group := api.Group("/finance")

	if refunds != nil {
		group.POST("/refunds", refunds.Create)
		group.GET("/refunds", refunds.List)
		group.GET("/refunds/statistics", refunds.GetStatistics)
		group.GET("/refunds/:id", refunds.GetByID)
		group.POST("/refunds/:id/process", refunds.Process)
		group.POST("/refunds/:id/complete", refunds.Complete)
		group.POST("/refunds/:id/fail", refunds.Fail)
		group.POST("/refunds/:id/cancel", refunds.Cancel)
	}

	if ledger != nil {
		group.GET("/reports/trial-balance", ledger.GetTrialBalance)
		group.GET("/accounts/:id/ledger", ledger.GetAccountLedger)
	}
}

// registerSystemRoutes wires the system info and ping endpoints
func registerSystemRoutes(api *gin.RouterGroup, system *handler.SystemHandler) {
	group := api.Group("/system")
	group.GET("/info", system.GetSystemInfo)
	group.GET("/ping", system.Ping)
}
