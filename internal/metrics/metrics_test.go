package metrics

import (
	"errors"
	"testing"
	"time"
)

type capture struct {
	counters   map[string]float64
	histograms map[string][]float64
	labels     map[string]Labels
	flushed    int
}

func newCapture() *capture {
	return &capture{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
		labels:     map[string]Labels{},
	}
}

func (c *capture) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *capture) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms[name] = append(c.histograms[name], value)
}

func (c *capture) Flush() error {
	c.flushed++
	return nil
}

func install(t *testing.T) *capture {
	t.Helper()
	c := newCapture()
	SetBackend(c)
	t.Cleanup(func() { backend = nopBackend{} })
	return c
}

func TestRecordStep(t *testing.T) {
	c := install(t)

	RecordStep("races", "parse", nil, 250*time.Millisecond)
	if c.counters["import_step_total"] != 1 {
		t.Fatalf("step counter = %v, want 1", c.counters["import_step_total"])
	}
	if got := c.labels["import_step_total"]["status"]; got != "success" {
		t.Fatalf("status label = %q, want success", got)
	}
	if n := len(c.histograms["import_step_duration_seconds"]); n != 1 {
		t.Fatalf("duration observations = %d, want 1", n)
	}

	RecordStep("races", "write", errors.New("boom"), time.Second)
	if got := c.labels["import_step_total"]["status"]; got != "failure" {
		t.Fatalf("status label = %q, want failure", got)
	}
}

func TestRecordRowIgnoresNonPositiveDeltas(t *testing.T) {
	c := install(t)

	RecordRow("races", "processed", 0)
	RecordRow("races", "processed", -5)
	if c.counters["import_rows_total"] != 0 {
		t.Fatalf("non-positive deltas should be ignored, got %v", c.counters["import_rows_total"])
	}

	RecordRow("races", "processed", 42)
	if c.counters["import_rows_total"] != 42 {
		t.Fatalf("rows counter = %v, want 42", c.counters["import_rows_total"])
	}
}

func TestRecordEventsAndFlush(t *testing.T) {
	c := install(t)

	RecordEvents("races", "created", 7)
	RecordEvents("races", "updated", 3)
	if c.counters["import_events_total"] != 10 {
		t.Fatalf("events counter = %v, want 10", c.counters["import_events_total"])
	}

	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if c.flushed != 1 {
		t.Fatalf("flushed = %d, want 1", c.flushed)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	c := install(t)
	SetBackend(nil)
	RecordRow("races", "processed", 1)
	if c.counters["import_rows_total"] != 1 {
		t.Fatalf("nil SetBackend should keep the installed backend")
	}
}
