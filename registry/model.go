package registry

import (
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/types"
)

// AccountType is one of the five fundamental account types, fixing an
// account's place in the accounting equation and its normal balance side.
type AccountType int

const (
	Asset AccountType = iota
	Liability
	Equity
	Revenue
	Expense
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Equity:
		return "equity"
	case Revenue:
		return "revenue"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// BalanceSide is the normal balance side of an account.
type BalanceSide int

const (
	Debit BalanceSide = iota
	Credit
)

func (b BalanceSide) String() string {
	if b == Credit {
		return "credit"
	}
	return "debit"
}

// normalBalanceFor returns the conventional normal balance side for t.
func normalBalanceFor(t AccountType) BalanceSide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Account is a chart-of-accounts entry, immutable once generated. Codes are
// unique within a run; ControlFor names the subledger kind this account
// reconciles to (AR, AP, FA, Inventory), empty for non-control accounts.
type Account struct {
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Type          AccountType `json:"type"`
	NormalBalance BalanceSide `json:"normal_balance"`
	IsControl     bool        `json:"is_control"`
	ControlFor    string      `json:"control_for,omitempty"`
	Parent        string      `json:"parent,omitempty"`
	Depth         int         `json:"depth"`
}

// Employee is a persona used for created_by/approved_by attribution.
type Employee struct {
	ID             id.ID     `json:"id"`
	Name           string       `json:"name"`
	Department     string       `json:"department"`
	Role           string       `json:"role"`
	ApprovalLimit  types.Decimal `json:"approval_limit"`
	CanCreate      bool         `json:"can_create"`
	CanApprove     bool         `json:"can_approve"`
	ManagerID      id.ID     `json:"manager_id,omitempty"`
	Validity       types.Validity `json:"validity"`
}

// VendorTier is a classification drawn from a categorical distribution,
// used to bias payment terms and flow volume.
type VendorTier int

const (
	VendorTierStrategic VendorTier = iota
	VendorTierPreferred
	VendorTierStandard
	VendorTierOccasional
)

// Vendor is a P2P counterparty.
type Vendor struct {
	ID               id.ID       `json:"id"`
	Name             string         `json:"name"`
	Country          string         `json:"country"`
	Tier             VendorTier     `json:"tier"`
	PaymentTermsDays int            `json:"payment_terms_days"`
	Validity         types.Validity `json:"validity"`
}

// CustomerRating is a creditworthiness classification.
type CustomerRating int

const (
	CustomerRatingAAA CustomerRating = iota
	CustomerRatingAA
	CustomerRatingA
	CustomerRatingB
	CustomerRatingC
)

// Customer is an O2C counterparty.
type Customer struct {
	ID               id.ID       `json:"id"`
	Name             string         `json:"name"`
	Country          string         `json:"country"`
	Rating           CustomerRating `json:"rating"`
	CreditLimit      types.Decimal  `json:"credit_limit"`
	PaymentTermsDays int            `json:"payment_terms_days"`
	Validity         types.Validity `json:"validity"`
}

// MaterialCategory classifies a material for unit-price distribution
// selection and inventory subledger behavior.
type MaterialCategory int

const (
	MaterialRawMaterial MaterialCategory = iota
	MaterialFinishedGood
	MaterialService
	MaterialMRO
)

// Material is a line-item referent for P2P/O2C documents.
type Material struct {
	ID        id.ID         `json:"id"`
	Name      string           `json:"name"`
	Category  MaterialCategory `json:"category"`
	UnitPrice types.Decimal    `json:"unit_price"`
	Validity  types.Validity   `json:"validity"`
}

// DepreciationMethod selects the formula close.Engine uses for a
// FixedAsset's class.
type DepreciationMethod int

const (
	StraightLine DepreciationMethod = iota
	DecliningBalance
	UnitsOfProduction
)

// AssetClass groups fixed assets for depreciation-method selection.
type AssetClass int

const (
	AssetClassBuilding AssetClass = iota
	AssetClassMachinery
	AssetClassVehicle
	AssetClassITEquipment
	AssetClassFurniture
)

// FixedAsset is a depreciable asset.
type FixedAsset struct {
	ID                 id.ID           `json:"id"`
	Name               string             `json:"name"`
	Class              AssetClass         `json:"class"`
	DepreciationMethod DepreciationMethod `json:"depreciation_method"`
	AcquisitionCost    types.Decimal      `json:"acquisition_cost"`
	SalvageValue       types.Decimal      `json:"salvage_value"`
	UsefulLifeMonths   int                `json:"useful_life_months"`
	AccountCode        string             `json:"account_code"`
	Validity           types.Validity     `json:"validity"`
}
