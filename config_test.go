package synth

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate(): %v", err)
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Companies = nil
	cfg.PeriodMonths = 0
	cfg.StartDate = time.Time{}
	cfg.Flow.RateP2P = 2.0
	cfg.Flow.ShardCount = 0
	cfg.Amount.LogNormalSigma = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected Validate to fail")
	}
	merr, ok := err.(MultiError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want MultiError", err)
	}
	if len(merr.Errors) < 6 {
		t.Fatalf("expected Validate to collect every violation, got %d: %v", len(merr.Errors), merr.Errors)
	}
}

func TestValidateRejectsDuplicateCompanyCodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Companies = append(cfg.Companies, cfg.Companies[0])

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject duplicate company codes")
	}
}

func TestValidateRejectsNonAscendingApprovalThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Employees.ApprovalThresholds = []float64{1000, 500, 2000}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject non-ascending approval thresholds")
	}
}

func TestValidateRejectsWeightsNotSummingToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vendors.TierWeights = map[string]float64{"strategic": 0.1, "standard": 0.2}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject weights that don't sum to 1.0")
	}
}

func TestValidateRejectsUnmetAnomalyClusterSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Anomaly.ClusterSize = 1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject a cluster size of 1")
	}
}
