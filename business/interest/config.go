package interest

import (
	"time"

	"marketSense/domain"
)

// Config holds the tunables of the interest aggregation pipeline. The exact
// multipliers are configuration, but the ordering is a contract: an explicit
// favorite never scores below a view of the same item.
type Config struct {
	// base signal strength per activity kind
	BaseWeights map[domain.ActivityKind]float64

	// exponential decay half-life applied to activity age
	HalfLife time.Duration

	// width of the derived preferred price band around the weighted center
	PriceTolerance float64

	// per-profile keyword counter cap; smallest weights evicted first
	MaxKeywords int
}

const (
	defaultWeightSearch   = 1.0
	defaultWeightView     = 2.0
	defaultWeightClick    = 3.0
	defaultWeightMessage  = 4.0
	defaultWeightFavorite = 5.0

	defaultHalfLifeDays   = 30
	defaultPriceTolerance = 0.3
	defaultMaxKeywords    = 200
)

func DefaultConfig() Config {
	return Config{
		BaseWeights: map[domain.ActivityKind]float64{
			domain.ActivitySearch:   defaultWeightSearch,
			domain.ActivityView:     defaultWeightView,
			domain.ActivityClick:    defaultWeightClick,
			domain.ActivityMessage:  defaultWeightMessage,
			domain.ActivityFavorite: defaultWeightFavorite,
		},
		HalfLife:       defaultHalfLifeDays * 24 * time.Hour,
		PriceTolerance: defaultPriceTolerance,
		MaxKeywords:    defaultMaxKeywords,
	}
}
