package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/i18n"
)

func TestMetrics_LabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newHTTPMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.observe)
	r.GET("/api/posts/:id", func(c *gin.Context) { c.String(http.StatusOK, "{}") })
	r.DELETE("/api/comments/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/posts/1", nil),
		httptest.NewRequest(http.MethodGet, "/api/posts/2", nil),
		httptest.NewRequest(http.MethodGet, "/wp-login.php", nil),
		httptest.NewRequest(http.MethodDelete, "/api/comments/9", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/posts/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("DELETE", "/api/comments/:id", "204")))
	assert.Zero(t, testutil.ToFloat64(m.inflight))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestMetrics_CountsMappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics(), ErrorMapper(i18n.New("ko")))
	r.GET("/api/posts/:id", Run(func(*gin.Context) error {
		return apperr.NotFound(i18n.MsgPostNotFound)
	}))

	before := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/api/posts/:id", "404"))
	beforeErr := testutil.ToFloat64(metrics.errors.WithLabelValues("not_found"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/7", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/api/posts/:id", "404")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(metrics.errors.WithLabelValues("not_found")))
}

func TestRecordAuthEvent(t *testing.T) {
	before := testutil.ToFloat64(metrics.auth.WithLabelValues("refresh"))
	RecordAuthEvent("refresh")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.auth.WithLabelValues("refresh")))
}
