package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/PBPF11/vacathon/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend("races", ""); err == nil {
		t.Fatalf("NewBackend with empty gateway URL should error")
	}

	b, err := NewBackend("", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	if b.jobName != "import" {
		t.Fatalf("default jobName = %q, want import", b.jobName)
	}

	b, err = NewBackend("races", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	if b.jobName != "races" || b.gatewayURL != "http://pushgateway:9091" {
		t.Fatalf("backend fields = %q %q", b.jobName, b.gatewayURL)
	}
}

func TestIncCounterRouting(t *testing.T) {
	b, err := NewBackend("races", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter("import_step_total", 3, metrics.Labels{"step": "parse", "status": "success"})
	b.IncCounter("import_rows_total", 5, metrics.Labels{"kind": "processed"})
	b.IncCounter("import_events_total", 2, metrics.Labels{"kind": "created"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	if got := testutil.ToFloat64(b.stepCounter.WithLabelValues("parse", "success")); got != 3 {
		t.Fatalf("stepCounter = %v, want 3", got)
	}
	if got := testutil.ToFloat64(b.rowCounter.WithLabelValues("processed")); got != 5 {
		t.Fatalf("rowCounter = %v, want 5", got)
	}
	if got := testutil.ToFloat64(b.eventCounter.WithLabelValues("created")); got != 2 {
		t.Fatalf("eventCounter = %v, want 2", got)
	}
}

func TestObserveHistogramIgnoresUnknownNames(t *testing.T) {
	b, err := NewBackend("races", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	// Neither call should panic; only the first is recorded.
	b.ObserveHistogram("import_step_duration_seconds", 1.5, metrics.Labels{"step": "write", "status": "success"})
	b.ObserveHistogram("other_metric", 2.0, metrics.Labels{"step": "write", "status": "success"})
}

// TestFlush verifies that Flush pushes the registry to the configured
// Pushgateway URL.
func TestFlush(t *testing.T) {
	type pushRequest struct {
		method  string
		path    string
		bodyLen int
	}
	reqCh := make(chan pushRequest, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushRequest{method: r.Method, path: r.URL.Path, bodyLen: len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("races", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter("import_rows_total", 1, metrics.Labels{"kind": "processed"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushRequest
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() did not send an HTTP request to the Pushgateway")
	}
	if got.bodyLen == 0 {
		t.Fatalf("push body is empty")
	}
}
