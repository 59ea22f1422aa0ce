package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel/pkg/logger"
)

type fixedGenerator struct{}

func (fixedGenerator) GenerateID() int64 { return 42 }
func (fixedGenerator) RequestID() string { return "req-42" }

func newRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(fixedGenerator{}), TraceLogger(logger.NewWithWriter("production", buf)))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	return r
}

func TestRequestID_Generated(t *testing.T) {
	var buf bytes.Buffer
	w := httptest.NewRecorder()
	newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-42", w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "upstream-id")
	w := httptest.NewRecorder()
	newRouter(&buf).ServeHTTP(w, req)

	assert.Equal(t, "upstream-id", w.Header().Get(HeaderRequestID))
}

func TestTraceLogger(t *testing.T) {
	var buf bytes.Buffer
	w := httptest.NewRecorder()
	newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "request completed", line["message"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "/boom", line["path"])
	assert.EqualValues(t, 502, line["status"])
}
