package registry

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

var ratingOrder = []string{"AAA", "AA", "A", "B", "C"}

func customerRatingFromKey(key string) CustomerRating {
	switch key {
	case "AAA":
		return CustomerRatingAAA
	case "AA":
		return CustomerRatingAA
	case "A":
		return CustomerRatingA
	case "B":
		return CustomerRatingB
	default:
		return CustomerRatingC
	}
}

// creditLimitByRating gives each rating a credit-limit order of magnitude;
// the actual limit is this base scaled by a per-customer draw so limits
// vary within a rating band instead of clustering on one value.
var creditLimitByRating = map[CustomerRating]float64{
	CustomerRatingAAA: 1000000,
	CustomerRatingAA:  500000,
	CustomerRatingA:   200000,
	CustomerRatingB:   50000,
	CustomerRatingC:   10000,
}

// GenerateCustomers builds the O2C counterparty master, per spec §4.4.
func GenerateCustomers(cfg CustomerConfig, stream *rng.Stream, namespace uuid.UUID) ([]Customer, error) {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	countries := cfg.Countries
	if len(countries) == 0 {
		countries = []string{"US", "DE", "GB", "CN", "JP", "IN"}
	}
	terms := cfg.PaymentTerms
	if len(terms) == 0 {
		terms = []int{15, 30, 45, 60}
	}

	ratingWeights := cfg.RatingWeights
	if len(ratingWeights) == 0 {
		ratingWeights = map[string]float64{"AAA": 0.05, "AA": 0.15, "A": 0.4, "B": 0.3, "C": 0.1}
	}
	ratingDist, err := distribution.NewEmpirical(weightsToIntKeys(ratingWeights, ratingOrder))
	if err != nil {
		return nil, fmt.Errorf("registry: customer rating distribution: %w", err)
	}

	customers := make([]Customer, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		label := fmt.Sprintf("registry/customer/%d", i)
		cid := id.New(namespace, id.PrefixCustomer, label, i)

		ratingIdx := ratingDist.Sample(stream)
		rating := customerRatingFromKey(ratingOrder[ratingIdx])
		country := countries[stream.UniformInt(0, len(countries)-1)]
		term := terms[stream.UniformInt(0, len(terms)-1)]

		base := creditLimitByRating[rating]
		scale := 0.5 + stream.Float64() // draw in [0.5, 1.5)
		limit := types.NewFromFloat(base * scale)

		customers = append(customers, Customer{
			ID:               cid,
			Name:             fmt.Sprintf("%s Customer #%d", country, i+1),
			Country:          country,
			Rating:           rating,
			CreditLimit:      limit,
			PaymentTermsDays: term,
		})
	}
	return customers, nil
}
