package plugin

import (
	"context"
	"testing"
)

type recordingPlugin struct {
	name     string
	initted  []string
	shutdown int
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) OnInit(_ context.Context, runID string) error {
	p.initted = append(p.initted, runID)
	return nil
}

func (p *recordingPlugin) OnShutdown(_ context.Context) error {
	p.shutdown++
	return nil
}

func TestRegisterDispatchesOnlyImplementedHooks(t *testing.T) {
	reg := NewRegistry()
	p := &recordingPlugin{name: "recorder"}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ctx := context.Background()
	reg.EmitInit(ctx, "run-1")
	reg.EmitShutdown(ctx)

	// A hook this plugin doesn't implement should be a silent no-op.
	reg.EmitAnomalyBudgetUnmet(ctx, 0.01, 0.2)

	if len(p.initted) != 1 || p.initted[0] != "run-1" {
		t.Fatalf("OnInit not dispatched correctly: %v", p.initted)
	}
	if p.shutdown != 1 {
		t.Fatalf("OnShutdown called %d times, want 1", p.shutdown)
	}
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	reg := NewRegistry()
	p1 := &recordingPlugin{name: "dup"}
	p2 := &recordingPlugin{name: "dup"}

	if err := reg.Register(p1); err != nil {
		t.Fatalf("Register(p1): %v", err)
	}
	if err := reg.Register(p2); err == nil {
		t.Fatal("expected Register to reject a second plugin with the same name")
	}
}

func TestEmitOnEmptyRegistryIsNoop(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()
	reg.EmitInit(ctx, "run-1")
	reg.EmitShutdown(ctx)
	reg.EmitRunCompleted(ctx, Summary{})
}
