package reco

import (
	"time"

	"marketSense/domain"
)

// Config externalizes every scoring constant so tuning never touches
// control flow.
type Config struct {
	// personalized component weights; must sum to 1 for scores in [0, 1]
	WCategory float64
	WKeyword  float64
	WPrice    float64
	WBrand    float64

	// similar-items component weights
	SimilarWKeyword  float64
	SimilarWCategory float64
	SimilarWBrand    float64
	SimilarWPrice    float64

	// trending activity window and the per-kind signal strengths used to
	// weight window counts (same ordering contract as interest aggregation)
	TrendingWindow time.Duration
	BaseWeights    map[domain.ActivityKind]float64

	// share of a for-you feed taken from the personalized source
	PersonalizedShare float64

	// preferred price band width when scoring against a profile
	PriceTolerance float64

	// price distance falloff scale for similar-items, relative to the
	// reference price
	PriceSpread float64
}

const (
	defaultWCategory = 0.4
	defaultWKeyword  = 0.4
	defaultWPrice    = 0.1
	defaultWBrand    = 0.1

	defaultSimilarWKeyword  = 0.5
	defaultSimilarWCategory = 0.2
	defaultSimilarWBrand    = 0.1
	defaultSimilarWPrice    = 0.2

	defaultTrendingWindowDays = 7
	defaultPersonalizedShare  = 2.0 / 3.0
	defaultPriceTolerance     = 0.3
	defaultPriceSpread        = 1.0
)

func DefaultConfig() Config {
	return Config{
		WCategory: defaultWCategory,
		WKeyword:  defaultWKeyword,
		WPrice:    defaultWPrice,
		WBrand:    defaultWBrand,

		SimilarWKeyword:  defaultSimilarWKeyword,
		SimilarWCategory: defaultSimilarWCategory,
		SimilarWBrand:    defaultSimilarWBrand,
		SimilarWPrice:    defaultSimilarWPrice,

		TrendingWindow: defaultTrendingWindowDays * 24 * time.Hour,
		BaseWeights: map[domain.ActivityKind]float64{
			domain.ActivitySearch:   1,
			domain.ActivityView:     2,
			domain.ActivityClick:    3,
			domain.ActivityMessage:  4,
			domain.ActivityFavorite: 5,
		},

		PersonalizedShare: defaultPersonalizedShare,
		PriceTolerance:    defaultPriceTolerance,
		PriceSpread:       defaultPriceSpread,
	}
}
