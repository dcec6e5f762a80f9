package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.InfoLevel, Output: &buf})
	t.Cleanup(func() {
		logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true})
	})
	return &buf
}

func TestRequestLogger(t *testing.T) {
	buf := captureLogs(t)
	caller := uuid.New()

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/public", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/private", func(c *gin.Context) {
		c.Set(ContextUserID, caller)
		c.Set(ContextRole, models.RoleSeller)
		c.Status(http.StatusNotFound)
	})

	readLine := func() map[string]any {
		t.Helper()
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		buf.Reset()
		return line
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/public", nil))
	line := readLine()
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "http", line["component"])
	assert.Equal(t, "/public", line["path"])
	assert.EqualValues(t, 200, line["status"])
	assert.NotContains(t, line, "userID")
	assert.NotContains(t, line, "role")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/private", nil))
	line = readLine()
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, caller.String(), line["userID"])
	assert.Equal(t, "SELLER", line["role"])
}
