package guard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGuardStartsNormal(t *testing.T) {
	g := New(FakeSampler{RSS: 1, DiskFree: 1 << 40, CPULoad: 0.1})
	if s := g.Snapshot(); s.State != Normal {
		t.Fatalf("initial state = %v, want Normal", s.State)
	}
}

func TestGuardEscalatesUnderPressure(t *testing.T) {
	sampler := FakeSampler{RSS: DefaultThresholds.RSSBytes[1] + 1, DiskFree: 1 << 40, CPULoad: 0.1}
	g := New(sampler, WithSampleInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := g.Start(ctx)
	defer g.Stop()

	deadline := time.After(500 * time.Millisecond)
	for {
		if g.Snapshot().State == Minimal {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("guard never escalated to Minimal, last state %v", g.Snapshot().State)
		case err := <-errCh:
			t.Fatalf("unexpected error: %v", err)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGuardSampleFailureDegradesAfterThreeConsecutive(t *testing.T) {
	sampler := FakeSampler{Err: errors.New("boom")}
	g := New(sampler, WithSampleInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.Start(ctx)
	defer g.Stop()

	time.Sleep(40 * time.Millisecond)
	if g.Snapshot().State == Normal {
		t.Fatal("guard did not degrade after repeated sample failures")
	}
}

func TestGuardEmergencyPastPanicTimeoutReturnsError(t *testing.T) {
	sampler := FakeSampler{RSS: DefaultThresholds.RSSBytes[2] + 1, DiskFree: 1, CPULoad: 100}
	g := New(sampler, WithSampleInterval(2*time.Millisecond), WithPanicTimeout(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := g.Start(ctx)
	defer g.Stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrResourceExhausted) {
			t.Fatalf("got error %v, want ErrResourceExhausted", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("guard never reported ErrResourceExhausted")
	}
}

func TestThresholdsLevelForEscalatesByWorstSignal(t *testing.T) {
	th := DefaultThresholds
	level := th.levelFor(0, 1<<40, 0)
	if level != Normal {
		t.Fatalf("levelFor(low pressure) = %v, want Normal", level)
	}
	level = th.levelFor(th.RSSBytes[0], 1<<40, 0)
	if level != Reduced {
		t.Fatalf("levelFor(rss at Reduced threshold) = %v, want Reduced", level)
	}
}
