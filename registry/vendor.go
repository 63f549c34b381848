package registry

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/rng"
)

var tierOrder = []string{"strategic", "preferred", "standard", "occasional"}

func vendorTierFromKey(key string) VendorTier {
	switch key {
	case "strategic":
		return VendorTierStrategic
	case "preferred":
		return VendorTierPreferred
	case "occasional":
		return VendorTierOccasional
	default:
		return VendorTierStandard
	}
}

// GenerateVendors builds the P2P counterparty master, per spec §4.4.
func GenerateVendors(cfg VendorConfig, stream *rng.Stream, namespace uuid.UUID) ([]Vendor, error) {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	countries := cfg.Countries
	if len(countries) == 0 {
		countries = []string{"US", "DE", "GB", "CN", "JP", "IN"}
	}
	terms := cfg.PaymentTerms
	if len(terms) == 0 {
		terms = []int{30, 45, 60, 90}
	}

	tierWeights := cfg.TierWeights
	if len(tierWeights) == 0 {
		tierWeights = map[string]float64{"strategic": 0.05, "preferred": 0.15, "standard": 0.6, "occasional": 0.2}
	}
	tierDist, err := distribution.NewEmpirical(weightsToIntKeys(tierWeights, tierOrder))
	if err != nil {
		return nil, fmt.Errorf("registry: vendor tier distribution: %w", err)
	}

	vendors := make([]Vendor, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		label := fmt.Sprintf("registry/vendor/%d", i)
		vid := id.New(namespace, id.PrefixVendor, label, i)

		tierIdx := tierDist.Sample(stream)
		tier := vendorTierFromKey(tierOrder[tierIdx])
		country := countries[stream.UniformInt(0, len(countries)-1)]
		term := terms[stream.UniformInt(0, len(terms)-1)]

		vendors = append(vendors, Vendor{
			ID:               vid,
			Name:             fmt.Sprintf("%s Vendor #%d", country, i+1),
			Country:          country,
			Tier:             tier,
			PaymentTermsDays: term,
		})
	}
	return vendors, nil
}

// weightsToIntKeys maps a {name: weight} map onto the positional index of
// name within order, so distribution.Empirical (which is keyed by integer
// or range string) can drive a named categorical classification.
func weightsToIntKeys(weights map[string]float64, order []string) map[string]float64 {
	out := make(map[string]float64, len(order))
	for i, name := range order {
		if w, ok := weights[name]; ok {
			out[fmt.Sprintf("%d", i)] = w
		}
	}
	return out
}
