package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/retailops/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.middleware)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Header("X-Test-Middleware", "applied")
		c.Next()
	})

	r.Setup(Handlers{System: handler.NewSystemHandler()})

	req := httptest.NewRequest("GET", "/api/v1/system/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
}

func TestSetupRegistersRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Setup(Handlers{
		Returns: handler.NewReturnHandler(nil),
		Refunds: handler.NewRefundHandler(nil),
		Ledger:  handler.NewLedgerHandler(nil),
		System:  handler.NewSystemHandler(),
	})

	expected := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/returns"},
		{"GET", "/api/v1/returns"},
		{"GET", "/api/v1/returns/statistics"},
		{"GET", "/api/v1/returns/:id"},
		{"POST", "/api/v1/returns/:id/quality-check"},
		{"POST", "/api/v1/returns/:id/approve"},
		{"POST", "/api/v1/returns/:id/reject"},
		{"POST", "/api/v1/returns/:id/process"},
		{"POST", "/api/v1/returns/:id/complete"},
		{"GET", "/api/v1/returns/:id/refunds"},
		{"POST", "/api/v1/finance/refunds"},
		{"GET", "/api/v1/finance/refunds"},
		{"GET", "/api/v1/finance/refunds/statistics"},
		{"GET", "/api/v1/finance/refunds/:id"},
		{"POST", "/api/v1/finance/refunds/:id/process"},
		{"POST", "/api/v1/finance/refunds/:id/complete"},
		{"POST", "/api/v1/finance/refunds/:id/fail"},
		{"POST", "/api/v1/finance/refunds/:id/cancel"},
		{"GET", "/api/v1/finance/reports/trial-balance"},
		{"GET", "/api/v1/finance/accounts/:id/ledger"},
		{"GET", "/api/v1/system/info"},
		{"GET", "/api/v1/system/ping"},
	}

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range expected {
		assert.True(t, registered[want.method+" "+want.path],
			"expected route %s %s to be registered", want.method, want.path)
	}
	assert.Len(t, engine.Routes(), len(expected))
}

func TestSetupSkipsNilHandlers(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Setup(Handlers{System: handler.NewSystemHandler()})

	for _, route := range engine.Routes() {
		assert.Contains(t, route.Path, "/system/")
	}
	assert.Len(t, engine.Routes(), 2)
}

func TestSystemPingResponds(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Setup(Handlers{System: handler.NewSystemHandler()})

	req := httptest.NewRequest("GET", "/api/v1/system/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
