package close

import (
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/types"
)

// monthlyDepreciation computes one period's depreciation for asset under
// its configured method, per spec §4.10.
func monthlyDepreciation(asset registry.FixedAsset, monthsElapsed int) types.Decimal {
	if asset.UsefulLifeMonths <= 0 || monthsElapsed >= asset.UsefulLifeMonths {
		return types.Zero
	}
	depreciableBase := asset.AcquisitionCost.Sub(asset.SalvageValue)
	if !depreciableBase.IsPositive() {
		return types.Zero
	}

	switch asset.DepreciationMethod {
	case registry.DecliningBalance:
		return decliningBalanceMonthly(asset, monthsElapsed)
	case registry.UnitsOfProduction:
		// No usage/production data is modeled per asset, so the nearest
		// faithful approximation is straight-line over useful life.
		return depreciableBase.DivInt(int64(asset.UsefulLifeMonths))
	default:
		return depreciableBase.DivInt(int64(asset.UsefulLifeMonths))
	}
}

// decliningBalanceMonthly applies a 200%-declining-balance rate against
// the asset's net book value at the start of the period, floored at the
// salvage value.
func decliningBalanceMonthly(asset registry.FixedAsset, monthsElapsed int) types.Decimal {
	annualRate := 2.0 / (float64(asset.UsefulLifeMonths) / 12.0)
	monthlyRate := annualRate / 12.0

	nbv := asset.AcquisitionCost.Float64()
	salvage := asset.SalvageValue.Float64()
	for m := 0; m < monthsElapsed; m++ {
		dep := nbv * monthlyRate
		if nbv-dep < salvage {
			dep = nbv - salvage
		}
		nbv -= dep
	}
	dep := nbv * monthlyRate
	if nbv-dep < salvage {
		dep = nbv - salvage
	}
	if dep < 0 {
		dep = 0
	}
	return types.NewFromFloat(dep)
}
