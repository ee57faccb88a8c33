package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthController_Status(t *testing.T) {
	db, cleanup := setupTestDB(t, "health")
	defer cleanup()

	controller := NewHealthController(db, "test-version")
	router := gin.New()
	router.GET("/health", controller.Status)

	w := performJSON(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	decodeBody(t, w, &response)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test-version", response.Version)
	assert.Equal(t, "ok", response.Checks["database"])
}

func TestHealthController_Status_NoDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	controller := NewHealthController(nil, "")
	router := gin.New()
	router.GET("/health", controller.Status)

	w := performJSON(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	decodeBody(t, w, &response)
	assert.Equal(t, "not configured", response.Checks["database"])
}

func TestHealthController_Status_ClosedDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t, "health")
	cleanup() // close the database up front

	controller := NewHealthController(db, "")
	router := gin.New()
	router.GET("/health", controller.Status)

	w := performJSON(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
