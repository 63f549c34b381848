package registry

// AccountConfig drives chart-of-accounts generation.
type AccountConfig struct {
	MinDepth       int
	MaxDepth       int
	AccountsPerLeg int // roughly how many leaf accounts to generate per type
}

// EmployeeConfig drives the persona roster used for created_by/approved_by.
type EmployeeConfig struct {
	Count int
	// ApprovalThresholds are strictly ascending amounts; an employee's
	// ApprovalLimit is drawn from this ladder so approval-chain tests have
	// a realistic distribution of authority levels.
	ApprovalThresholds []float64
}

// VendorConfig drives vendor-master generation.
type VendorConfig struct {
	Count         int
	Countries     []string
	TierWeights   map[string]float64 // keys: "strategic","preferred","standard","occasional"
	PaymentTerms  []int              // candidate net-day terms, e.g. {30,45,60,90}
}

// CustomerConfig drives customer-master generation.
type CustomerConfig struct {
	Count         int
	Countries     []string
	RatingWeights map[string]float64 // keys: "AAA","AA","A","B","C"
	PaymentTerms  []int
}

// MaterialConfig drives material-master generation.
type MaterialConfig struct {
	Count            int
	CategoryWeights  map[string]float64 // keys: "raw_material","finished_good","service","mro"
	UnitPriceMinor   float64
	UnitPriceMajor   float64
}

// AssetConfig drives fixed-asset register generation.
type AssetConfig struct {
	Count         int
	ClassWeights  map[string]float64 // keys: "building","machinery","vehicle","it_equipment","furniture"
}
