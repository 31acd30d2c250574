package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveLookup(ResultOK)
	m.ObserveLookup(ResultOK)
	m.ObserveLookup(ResultInvalid)
	m.CacheHit()

	require.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues(ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues(ResultInvalid)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
}

func TestMetrics_RefreshHistogram(t *testing.T) {
	m := New()

	m.ObserveRefresh(120*time.Millisecond, nil)
	m.ObserveRefresh(time.Second, errors.New("boom"))

	require.Equal(t, 2, testutil.CollectAndCount(m.refreshDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveLookup(ResultNotFound)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `ecbrates_lookups_total{result="not_found"} 1`)
}
