package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidation(t *testing.T) {
	m := New()

	m.RecordValidation(true, "low")
	m.RecordValidation(false, "critical")
	m.RecordValidation(false, "critical")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationResults.WithLabelValues("accepted", "low")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationResults.WithLabelValues("rejected", "critical")))
}

func TestHandlerServesRegisteredCollectors(t *testing.T) {
	m := New()
	m.RateLimitDenials.Inc()
	m.QueryExecutions.WithLabelValues("success").Inc()
	m.SchemaRefreshes.WithLabelValues("error").Inc()
	m.CompletionRequests.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	for _, name := range []string{
		"querygym_rate_limit_denials_total 1",
		`querygym_query_executions_total{status="success"} 1`,
		`querygym_schema_refreshes_total{status="error"} 1`,
		"querygym_completion_requests_total 1",
	} {
		assert.True(t, strings.Contains(body, name), "missing %s in body", name)
	}
}

func TestIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.CompletionRequests.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CompletionRequests))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CompletionRequests))
}
