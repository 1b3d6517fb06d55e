package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sjzsdu/projview/project/model"
	"github.com/sjzsdu/projview/project/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ scan.Recorder  = (*Recorder)(nil)
	_ model.Recorder = (*Recorder)(nil)
)

func TestScanMetrics(t *testing.T) {
	r := NewRecorder()
	completed := testutil.ToFloat64(scansTotal.WithLabelValues("completed"))
	canceled := testutil.ToFloat64(scansTotal.WithLabelValues("canceled"))
	files := testutil.ToFloat64(scannedFilesTotal)

	r.ScanStarted("/proj")
	assert.Equal(t, float64(1), testutil.ToFloat64(scansInFlight))
	r.ScanFinished(scan.Stats{Root: "/proj", Files: 10, Directories: 3, Duration: time.Millisecond})
	assert.Equal(t, float64(0), testutil.ToFloat64(scansInFlight))

	r.ScanStarted("/proj")
	r.ScanFinished(scan.Stats{Root: "/proj", Files: 2, Canceled: true})

	assert.Equal(t, completed+1, testutil.ToFloat64(scansTotal.WithLabelValues("completed")))
	assert.Equal(t, canceled+1, testutil.ToFloat64(scansTotal.WithLabelValues("canceled")))
	assert.Equal(t, files+12, testutil.ToFloat64(scannedFilesTotal))
}

func TestModelMetrics(t *testing.T) {
	r := NewRecorder()
	before := testutil.ToFloat64(modelRebuildsTotal)
	r.ModelRebuilt("app", 42, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(modelRebuildsTotal))
	assert.Equal(t, float64(42), testutil.ToFloat64(modelNodes.WithLabelValues("app")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordWatchEvent("WRITE")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `projview_watch_events_total{op="WRITE"}`)
}
