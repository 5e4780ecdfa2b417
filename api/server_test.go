package api_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aidin1998/apishape/api"
	"github.com/Aidin1998/apishape/api/exception"
	"github.com/Aidin1998/apishape/api/responses"
	"github.com/Aidin1998/apishape/common/apiutil"
	"github.com/Aidin1998/apishape/common/errors"
	"github.com/Aidin1998/apishape/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type widget struct {
	Name string `json:"name" validate:"required"`
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.EnvTest,
		Server: config.ServerConfig{
			Addr:            "127.0.0.1:0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Log:     config.LogConfig{Level: "debug"},
		Tracing: config.TracingConfig{ServiceName: "apishape-test"},
		CORS:    config.CORSConfig{AllowOrigins: []string{"*"}},
	}
}

func widgetRoutes(v1 *gin.RouterGroup) {
	v1.POST("/widgets", exception.Handle(func(c *gin.Context) error {
		var w widget
		if err := apiutil.BindJSON(c, &w); err != nil {
			return err
		}
		responses.From(c).Created(w, responses.WithLinks(responses.Link{Rel: "self", Href: "/api/v1/widgets/1"}))
		return nil
	}))
	v1.DELETE("/widgets/:id", func(c *gin.Context) {
		responses.From(c).Destroyed()
	})
	v1.GET("/widgets/:id", exception.Handle(func(c *gin.Context) error {
		if c.Param("id") == "secret" {
			return errors.Forbidden("forbidden").WithBody(gin.H{"reason": "x"})
		}
		return stderrors.New("widget store unavailable")
	}))
}

// setupRouter builds the server with a logger whose entries can be inspected
func setupRouter() (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	srv := api.NewServer(testConfig(), zap.New(core), widgetRoutes)
	return srv.Router(), logs
}

func do(router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter()
	w, resp := do(router, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, map[string]interface{}{"status": "ok", "environment": "test"}, resp["data"])
	assert.NotEmpty(t, w.Header().Get(apiutil.TraceIDHeader))
}

func TestCreateWidget(t *testing.T) {
	router, _ := setupRouter()
	w, resp := do(router, http.MethodPost, "/api/v1/widgets", `{"name":"gear"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]interface{}{"name": "gear"}, resp["data"])
	assert.Len(t, resp["links"], 1)
	assert.NotContains(t, resp, "message")
}

func TestCreateWidget_ValidationError(t *testing.T) {
	router, logs := setupRouter()
	w, resp := do(router, http.MethodPost, "/api/v1/widgets", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, apiutil.ValidationFailedMessage, resp["message"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"field": "name", "tag": "required", "message": "name is required"},
	}, resp["error"])
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDeleteWidget(t *testing.T) {
	router, _ := setupRouter()
	w, resp := do(router, http.MethodDelete, "/api/v1/widgets/1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"success": true, "data": nil}, resp)
}

func TestDomainError(t *testing.T) {
	router, logs := setupRouter()
	w, resp := do(router, http.MethodGet, "/api/v1/widgets/secret", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, map[string]interface{}{
		"success": false,
		"message": "forbidden",
		"error":   map[string]interface{}{"reason": "x"},
	}, resp)
	// handled errors don't reach the access log as faults
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestUnclassifiedError(t *testing.T) {
	router, logs := setupRouter()
	w, resp := do(router, http.MethodGet, "/api/v1/widgets/7", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{
		"success": false,
		"message": "Something broke!",
		"error":   nil,
	}, resp)
	// the access log reports the fault downstream of the normalizer
	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.NotEmpty(t, errorsLogged)
	assert.Contains(t, errorsLogged[0].Message, "widget store unavailable")
}

func TestNoRoute(t *testing.T) {
	router, _ := setupRouter()
	w, resp := do(router, http.MethodGet, "/api/v1/nothing-here", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]interface{}{"success": false, "message": "Route not found", "error": nil}, resp)
}

func TestNoMethod(t *testing.T) {
	router, _ := setupRouter()
	w, resp := do(router, http.MethodPut, "/api/v1/health", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", resp["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupRouter()
	do(router, http.MethodGet, "/api/v1/health", "")

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "apishape_responses_total")
	assert.Contains(t, w.Body.String(), "apishape_http_requests_total")
}

func TestStartAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := api.NewServer(testConfig(), zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}
