package observability

import (
	"context"
	"testing"

	"github.com/synthledger/core/guard"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/plugin"
)

type fakeCounter struct{ value float64 }

func (c *fakeCounter) Inc()          { c.value++ }
func (c *fakeCounter) Add(v float64) { c.value += v }

type fakeHistogram struct{ observations []float64 }

func (h *fakeHistogram) Observe(v float64) { h.observations = append(h.observations, v) }

type fakeFactory struct {
	counters   map[string]*fakeCounter
	histograms map[string]*fakeHistogram
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{counters: map[string]*fakeCounter{}, histograms: map[string]*fakeHistogram{}}
}

func (f *fakeFactory) Counter(name string) Counter {
	c := &fakeCounter{}
	f.counters[name] = c
	return c
}

func (f *fakeFactory) Histogram(name string) Histogram {
	h := &fakeHistogram{}
	f.histograms[name] = h
	return h
}

func TestMetricsExtensionRecordsEntryBatches(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)

	entries := []*journal.Entry{{}, {}, {}}
	if err := ext.OnEntryBatchPosted(context.Background(), entries); err != nil {
		t.Fatalf("OnEntryBatchPosted: %v", err)
	}

	if factory.counters["synth.journal.entries.posted"].value != 3 {
		t.Errorf("entries.posted = %v, want 3", factory.counters["synth.journal.entries.posted"].value)
	}
	if len(factory.histograms["synth.journal.batch.size"].observations) != 1 {
		t.Errorf("expected one batch-size observation")
	}
}

func TestMetricsExtensionRecordsGuardStateByLevel(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)

	if err := ext.OnGuardStateChanged(context.Background(), guard.Normal, guard.Emergency); err != nil {
		t.Fatalf("OnGuardStateChanged: %v", err)
	}
	if factory.counters["synth.guard.emergency"].value != 1 {
		t.Errorf("guard.emergency = %v, want 1", factory.counters["synth.guard.emergency"].value)
	}
	if factory.counters["synth.guard.reduced"].value != 0 {
		t.Errorf("guard.reduced = %v, want 0", factory.counters["synth.guard.reduced"].value)
	}
}

func TestMetricsExtensionRunCompletedTracksErrors(t *testing.T) {
	factory := newFakeFactory()
	ext := NewMetricsExtension(factory)

	if err := ext.OnRunCompleted(context.Background(), plugin.Summary{}); err != nil {
		t.Fatalf("OnRunCompleted: %v", err)
	}
	if factory.counters["synth.run.errors"].value != 0 {
		t.Fatalf("expected no error count for a clean run")
	}

	if err := ext.OnRunCompleted(context.Background(), plugin.Summary{Err: context.DeadlineExceeded}); err != nil {
		t.Fatalf("OnRunCompleted: %v", err)
	}
	if factory.counters["synth.run.errors"].value != 1 {
		t.Errorf("run.errors = %v, want 1", factory.counters["synth.run.errors"].value)
	}
}
