package synth

import (
	"fmt"
	"time"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/guard"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/schedule"
	"github.com/synthledger/core/types"
)

// Company is one legal entity the run generates transactions for.
type Company struct {
	Code     string
	Name     string
	Country  string
	Currency string
}

// FlowConfig sizes the document-flow engine (C6): how many P2P/O2C flow
// instances to generate per company and how the resulting volume splits
// between the two business processes.
type FlowConfig struct {
	FlowsPerCompany int
	ShardCount      int
	RateP2P         float64
	RateO2C         float64
	Dunning         flow.DunningSchedule

	// QtyTolerance and PriceTolerance bound the three-way match between a
	// PO, its goods receipt(s), and the vendor invoice: a mismatch within
	// tolerance counts as a match, and one beyond it is flagged on the
	// invoice-matched entry rather than blocking the flow, per spec §4.6.
	QtyTolerance   float64
	PriceTolerance float64
}

// AmountConfig configures the journal synthesizer's gross-amount
// distribution and the statistical biases layered on top of it.
type AmountConfig struct {
	LogNormalMu    float64
	LogNormalSigma float64
	Min            types.Decimal
	Max            types.Decimal
	BenfordRate      float64 // fraction of amounts that get Benford-biased leading digits
	RoundNumberBias  distribution.RoundNumberBias
	LineCountWeights map[string]float64 // range-key weights, e.g. {"2-2": 0.6, "3-5": 0.3, "6-10": 0.1}
}

// ScheduleConfig configures the temporal scheduler (C8).
type ScheduleConfig struct {
	Seasonality distribution.Seasonality
	DayOfWeek   schedule.DayOfWeekWeights
	TimeOfDay   distribution.TimeOfDay
	PostLagMu   float64
	PostLagSigma float64
}

// AnomalyConfig configures the anomaly injector (C9).
type AnomalyConfig struct {
	TotalRate   float64
	Weights     []anomaly.TypeWeight
	ClusterSize int
}

// SinkConfig names the sink(s) a run writes to and their flush policy.
type SinkConfig struct {
	// FlushBatchSize is how many records accumulate before an automatic
	// flush; 0 means the orchestrator flushes once at the end of the run.
	FlushBatchSize int
	MaxRetries     int
	BackoffBase    time.Duration
}

// Config is the full configuration for one generation run. Validate must
// succeed before the value is usable by New.
type Config struct {
	Seed         uint64
	Companies    []Company
	PeriodMonths int
	StartDate    time.Time

	Accounts  registry.AccountConfig
	Employees registry.EmployeeConfig
	Vendors   registry.VendorConfig
	Customers registry.CustomerConfig
	Materials registry.MaterialConfig
	Assets    registry.AssetConfig

	Flow      FlowConfig
	Amount    AmountConfig
	Schedule  ScheduleConfig
	Anomaly   AnomalyConfig
	Sink      SinkConfig

	Templates journal.TemplateSet

	Guard        guard.Thresholds
	GuardDiskPath string

	// OrderedOutput requests a final k-way merge into strict ascending
	// (posting_date, doc_id) order before sinks are flushed, trading
	// memory for a globally ordered stream (spec §5).
	OrderedOutput bool
}

// DefaultConfig returns a Config with reasonable defaults for a small
// single-company run; callers override fields (most commonly Seed,
// Companies, and PeriodMonths) before calling Validate.
func DefaultConfig() Config {
	return Config{
		Seed: 1,
		Companies: []Company{
			{Code: "US01", Name: "Synth Example Corp", Country: "US", Currency: "USD"},
		},
		PeriodMonths: 12,
		StartDate:    time.Date(time.Now().Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),

		Accounts: registry.AccountConfig{MinDepth: 2, MaxDepth: 4, AccountsPerLeg: 8},
		Employees: registry.EmployeeConfig{
			Count:              40,
			ApprovalThresholds: []float64{1000, 10000, 100000, 1000000},
		},
		Vendors: registry.VendorConfig{
			Count:        60,
			Countries:    []string{"US", "DE", "GB", "IN", "JP"},
			TierWeights:  map[string]float64{"strategic": 0.1, "preferred": 0.25, "standard": 0.5, "occasional": 0.15},
			PaymentTerms: []int{30, 45, 60, 90},
		},
		Customers: registry.CustomerConfig{
			Count:         120,
			Countries:     []string{"US", "DE", "GB", "IN", "JP", "BR"},
			RatingWeights: map[string]float64{"AAA": 0.05, "AA": 0.15, "A": 0.35, "B": 0.3, "C": 0.15},
			PaymentTerms:  []int{15, 30, 45, 60},
		},
		Materials: registry.MaterialConfig{
			Count:           200,
			CategoryWeights: map[string]float64{"raw_material": 0.3, "finished_good": 0.3, "service": 0.25, "mro": 0.15},
			UnitPriceMinor:  1,
			UnitPriceMajor:  50000,
		},
		Assets: registry.AssetConfig{
			Count:        50,
			ClassWeights: map[string]float64{"building": 0.05, "machinery": 0.3, "vehicle": 0.15, "it_equipment": 0.35, "furniture": 0.15},
		},

		Flow: FlowConfig{
			FlowsPerCompany: 500,
			ShardCount:      8,
			RateP2P:         0.5,
			RateO2C:         0.5,
			Dunning:         flow.DefaultDunningSchedule,
			QtyTolerance:    0.02,
			PriceTolerance:  0.03,
		},
		Amount: AmountConfig{
			LogNormalMu:     6.5,
			LogNormalSigma:  1.2,
			Min:             types.NewFromInt(1),
			Max:             types.NewFromInt(500000),
			BenfordRate:      0.0,
			RoundNumberBias:  distribution.RoundNumberBias{PRound: 0.05, PNice: 0.03},
			LineCountWeights: map[string]float64{"2-2": 0.6, "3-5": 0.3, "6-10": 0.1},
		},
		Schedule: ScheduleConfig{
			Seasonality:  distribution.DefaultSeasonality,
			DayOfWeek:    schedule.DefaultDayOfWeekWeights,
			TimeOfDay:    distribution.DefaultTimeOfDay,
			PostLagMu:    0.5,
			PostLagSigma: 0.8,
		},
		Anomaly: AnomalyConfig{
			TotalRate: 0.01,
			Weights: []anomaly.TypeWeight{
				{Type: anomaly.TypeDuplicatePayment, Weight: 0.2},
				{Type: anomaly.TypeRoundNumberSpike, Weight: 0.2},
				{Type: anomaly.TypeWeekendPosting, Weight: 0.15},
				{Type: anomaly.TypeSkippedApproval, Weight: 0.15},
				{Type: anomaly.TypeTransposedAmount, Weight: 0.15},
				{Type: anomaly.TypeSuspenseAbuse, Weight: 0.15},
			},
			ClusterSize: 3,
		},
		Sink: SinkConfig{
			FlushBatchSize: 1000,
			MaxRetries:     3,
			BackoffBase:    100 * time.Millisecond,
		},
		Templates:     journal.DefaultTemplates,
		Guard:         guard.DefaultThresholds,
		GuardDiskPath: ".",
	}
}

// Validate checks every field against the constraints in spec §6,
// collecting every violation found rather than stopping at the first.
func (c Config) Validate() error {
	var errs MultiError

	if c.PeriodMonths < 1 || c.PeriodMonths > 120 {
		errs.Add(ValidationError{"period_months", "must be between 1 and 120"})
	}
	if c.StartDate.IsZero() {
		errs.Add(ValidationError{"start_date", "must be set"})
	}

	if len(c.Companies) == 0 {
		errs.Add(ValidationError{"companies", "at least one company is required"})
	}
	seenCodes := make(map[string]bool, len(c.Companies))
	for _, co := range c.Companies {
		if co.Code == "" {
			errs.Add(ValidationError{"companies[].code", "must not be empty"})
			continue
		}
		if seenCodes[co.Code] {
			errs.Add(ValidationError{"companies[].code", fmt.Sprintf("duplicate company code %q", co.Code)})
		}
		seenCodes[co.Code] = true
		if co.Currency == "" {
			errs.Add(ValidationError{"companies[].currency", fmt.Sprintf("company %q: currency must not be empty", co.Code)})
		}
		if len(co.Country) != 2 {
			errs.Add(ValidationError{"companies[].country", fmt.Sprintf("company %q: country must be an ISO-3166 alpha-2 code", co.Code)})
		}
	}

	if c.Accounts.MinDepth < 1 {
		errs.Add(ValidationError{"accounts.min_depth", "must be >= 1"})
	}
	if c.Accounts.MaxDepth < c.Accounts.MinDepth {
		errs.Add(ValidationError{"accounts.max_depth", "must be >= min_depth"})
	}

	validateAscending(&errs, "employees.approval_thresholds", c.Employees.ApprovalThresholds)
	if c.Employees.Count < 1 {
		errs.Add(ValidationError{"employees.count", "must be >= 1"})
	}

	validateRate(&errs, "vendors.tier_weights", c.Vendors.TierWeights)
	validateRate(&errs, "customers.rating_weights", c.Customers.RatingWeights)
	validateRate(&errs, "materials.category_weights", c.Materials.CategoryWeights)
	validateRate(&errs, "assets.class_weights", c.Assets.ClassWeights)

	if c.Materials.UnitPriceMinor <= 0 || c.Materials.UnitPriceMajor <= c.Materials.UnitPriceMinor {
		errs.Add(ValidationError{"materials.unit_price", "unit_price_major must be greater than a positive unit_price_minor"})
	}

	if c.Flow.RateP2P < 0 || c.Flow.RateP2P > 1 || c.Flow.RateO2C < 0 || c.Flow.RateO2C > 1 {
		errs.Add(ValidationError{"flow.rate_p2p/rate_o2c", "must each be within [0,1]"})
	}
	if c.Flow.ShardCount < 1 {
		errs.Add(ValidationError{"flow.shard_count", "must be >= 1"})
	}
	if c.Flow.FlowsPerCompany < 0 {
		errs.Add(ValidationError{"flow.flows_per_company", "must be >= 0"})
	}
	if c.Flow.QtyTolerance < 0 || c.Flow.QtyTolerance > 1 {
		errs.Add(ValidationError{"flow.qty_tolerance", "must be within [0,1]"})
	}
	if c.Flow.PriceTolerance < 0 || c.Flow.PriceTolerance > 1 {
		errs.Add(ValidationError{"flow.price_tolerance", "must be within [0,1]"})
	}

	if c.Amount.LogNormalSigma <= 0 {
		errs.Add(ValidationError{"amount.lognormal_sigma", "must be > 0"})
	}
	if !c.Amount.Min.IsZero() && c.Amount.Min.IsNegative() {
		errs.Add(ValidationError{"amount.min", "must be >= 0"})
	}
	if !c.Amount.Max.GreaterThan(c.Amount.Min) {
		errs.Add(ValidationError{"amount.max", "must be greater than amount.min"})
	}
	if c.Amount.BenfordRate < 0 || c.Amount.BenfordRate > 1 {
		errs.Add(ValidationError{"amount.benford_rate", "must be within [0,1]"})
	}
	validateRate(&errs, "amount.line_count_weights", c.Amount.LineCountWeights)

	if c.Anomaly.TotalRate < 0 || c.Anomaly.TotalRate > 1 {
		errs.Add(ValidationError{"anomaly.total_rate", "must be within [0,1]"})
	}
	if c.Anomaly.ClusterSize != 0 && c.Anomaly.ClusterSize < 2 {
		errs.Add(ValidationError{"anomaly.cluster_size", "must be >= 2 when set"})
	}
	weightSum := 0.0
	for _, w := range c.Anomaly.Weights {
		weightSum += w.Weight
	}
	if len(c.Anomaly.Weights) > 0 && (weightSum < 1-1e-9 || weightSum > 1+1e-9) {
		errs.Add(ValidationError{"anomaly.weights", "must sum to 1.0 within 1e-9"})
	}

	if len(c.Templates) == 0 {
		errs.Add(ValidationError{"templates", "at least one template is required"})
	}

	if c.Sink.MaxRetries < 0 {
		errs.Add(ValidationError{"sink.max_retries", "must be >= 0"})
	}

	return errs.ErrOrNil()
}

// validateAscending checks that values is strictly ascending, per spec
// §6's approval-threshold-ladder rule.
func validateAscending(errs *MultiError, field string, values []float64) {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			errs.Add(ValidationError{field, "must be strictly ascending"})
			return
		}
	}
}

// validateRate checks that a weight map's values sum to 1.0 within 1e-9,
// per spec §6.
func validateRate(errs *MultiError, field string, weights map[string]float64) {
	if len(weights) == 0 {
		return
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			errs.Add(ValidationError{field, "weights must be non-negative"})
			return
		}
		sum += w
	}
	if sum < 1-1e-9 || sum > 1+1e-9 {
		errs.Add(ValidationError{field, "weights must sum to 1.0 within 1e-9"})
	}
}
