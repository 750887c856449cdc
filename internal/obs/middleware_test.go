package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPObsRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("testns", nil, reg)
	obs := HTTPObs{Metrics: metrics}

	handler := obs.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders/42", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	count := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/orders/42", "418"))
	require.Equal(t, 1.0, count)
}

func TestStatusRecorderDefaults(t *testing.T) {
	rec := NewStatusRecorder(httptest.NewRecorder())
	require.Equal(t, http.StatusOK, rec.Status())
	n, err := rec.Write([]byte("body"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, int64(4), rec.BytesWritten())
}
