package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
)

func TestOnEntryBatchPostedRecordsOneEventPerEntry(t *testing.T) {
	var recorded []Event
	ext := New(RecorderFunc(func(_ context.Context, evt Event) error {
		recorded = append(recorded, evt)
		return nil
	}))

	namespace := id.Namespace(1)
	entries := []*journal.Entry{
		{
			DocID:           id.New(namespace, id.PrefixJournalEntry, "test", 0),
			BusinessProcess: "P2P",
			CreatedBy:       id.New(namespace, id.PrefixEmployee, "test/employee", 0),
			PostingDate:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	if err := ext.OnEntryBatchPosted(context.Background(), entries); err != nil {
		t.Fatalf("OnEntryBatchPosted: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("recorded %d events, want 1", len(recorded))
	}
	if recorded[0].Activity != "P2P_posted" {
		t.Errorf("Activity = %q, want %q", recorded[0].Activity, "P2P_posted")
	}
	if recorded[0].CaseID != entries[0].DocID.String() {
		t.Errorf("CaseID = %q, want %q", recorded[0].CaseID, entries[0].DocID.String())
	}
}

func TestOnFlowShardAbortedRecordsMarkerEvent(t *testing.T) {
	var recorded []Event
	ext := New(RecorderFunc(func(_ context.Context, evt Event) error {
		recorded = append(recorded, evt)
		return nil
	}))

	if err := ext.OnFlowShardAborted(context.Background(), 3, "boom"); err != nil {
		t.Fatalf("OnFlowShardAborted: %v", err)
	}
	if len(recorded) != 1 || recorded[0].CaseID != "shard_3" {
		t.Fatalf("recorded = %v, want a single shard_3 event", recorded)
	}
}

func TestOnAnomalyInjectedKeysByAnomalyID(t *testing.T) {
	var recorded []Event
	ext := New(RecorderFunc(func(_ context.Context, evt Event) error {
		recorded = append(recorded, evt)
		return nil
	}))

	label := anomaly.Label{AnomalyID: "anomaly-42", Type: anomaly.TypeRoundNumberSpike}
	if err := ext.OnAnomalyInjected(context.Background(), label); err != nil {
		t.Fatalf("OnAnomalyInjected: %v", err)
	}
	if len(recorded) != 1 || recorded[0].CaseID != "anomaly-42" {
		t.Fatalf("recorded = %v, want a single anomaly-42 event", recorded)
	}
	if recorded[0].Activity != "anomaly_RoundNumberSpike" {
		t.Errorf("Activity = %q, want %q", recorded[0].Activity, "anomaly_RoundNumberSpike")
	}
}

func TestOnPeriodClosedRecordsOncePerCompany(t *testing.T) {
	var recorded []Event
	ext := New(RecorderFunc(func(_ context.Context, evt Event) error {
		recorded = append(recorded, evt)
		return nil
	}))

	period := balance.Period{FiscalYear: 2025, FiscalPeriod: 1}
	tb := balance.TrialBalance{
		Period: period,
		Lines: []balance.State{
			{Key: balance.Key{Company: "US01", Account: "1000", Period: period}},
			{Key: balance.Key{Company: "US01", Account: "2000", Period: period}},
			{Key: balance.Key{Company: "DE01", Account: "1000", Period: period}},
		},
	}

	if err := ext.OnPeriodClosed(context.Background(), period, tb); err != nil {
		t.Fatalf("OnPeriodClosed: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("recorded %d events, want 2 (one per distinct company)", len(recorded))
	}
}

func TestRecorderErrorIsNonFatal(t *testing.T) {
	ext := New(RecorderFunc(func(_ context.Context, _ Event) error {
		return context.DeadlineExceeded
	}))

	if err := ext.OnFlowShardAborted(context.Background(), 1, nil); err != nil {
		t.Fatalf("OnFlowShardAborted should swallow recorder errors, got %v", err)
	}
}
