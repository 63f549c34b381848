package registry

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/synthledger/core/distribution"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

var materialCategoryOrder = []string{"raw_material", "finished_good", "service", "mro"}

func materialCategoryFromKey(key string) MaterialCategory {
	switch key {
	case "finished_good":
		return MaterialFinishedGood
	case "service":
		return MaterialService
	case "mro":
		return MaterialMRO
	default:
		return MaterialRawMaterial
	}
}

// GenerateMaterials builds the material master referenced by P2P/O2C
// document line items, per spec §4.4.
func GenerateMaterials(cfg MaterialConfig, stream *rng.Stream, namespace uuid.UUID) ([]Material, error) {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	minPrice, maxPrice := cfg.UnitPriceMinor, cfg.UnitPriceMajor
	if maxPrice <= minPrice {
		minPrice, maxPrice = 1, 10000
	}

	catWeights := cfg.CategoryWeights
	if len(catWeights) == 0 {
		catWeights = map[string]float64{"raw_material": 0.35, "finished_good": 0.35, "service": 0.15, "mro": 0.15}
	}
	catDist, err := distribution.NewEmpirical(weightsToIntKeys(catWeights, materialCategoryOrder))
	if err != nil {
		return nil, fmt.Errorf("registry: material category distribution: %w", err)
	}

	priceDist := distribution.LogNormal{
		Mu:    0,
		Sigma: 1.2,
		Min:   types.NewFromFloat(minPrice),
		Max:   types.NewFromFloat(maxPrice),
	}

	materials := make([]Material, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		label := fmt.Sprintf("registry/material/%d", i)
		mid := id.New(namespace, id.PrefixMaterial, label, i)

		catIdx := catDist.Sample(stream)
		category := materialCategoryFromKey(materialCategoryOrder[catIdx])
		price := priceDist.Sample(stream)

		materials = append(materials, Material{
			ID:        mid,
			Name:      fmt.Sprintf("Material #%d", i+1),
			Category:  category,
			UnitPrice: price,
		})
	}
	return materials, nil
}
