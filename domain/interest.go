package domain

import "time"

// PriceRange is an inclusive (low, high) price band.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Low && price <= r.High
}

func (r PriceRange) Center() float64 {
	return (r.Low + r.High) / 2
}

// InterestProfile is a decaying-weight summary of one identity's preferences.
// Weights are non-negative; older activity contributes less than recent
// activity of the same kind. Persisted as a JSON blob keyed by identity.
type InterestProfile struct {
	Categories map[string]float64 `json:"categories"`
	Keywords   map[string]float64 `json:"keywords"`
	Brands     map[string]float64 `json:"brands"`

	// Running weighted price preference over activities that carried a
	// known listing price. The preferred band is derived from the center
	// with a configurable tolerance.
	PriceCenter float64 `json:"price_center"`
	PriceWeight float64 `json:"price_weight"`

	// DecayedAt is the instant the counters were last decayed to. Folding
	// anything into the profile first rescales every counter from this
	// instant, so incremental updates stay equal to a full rebuild.
	DecayedAt time.Time `json:"decayed_at"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewInterestProfile() InterestProfile {
	return InterestProfile{
		Categories: make(map[string]float64),
		Keywords:   make(map[string]float64),
		Brands:     make(map[string]float64),
	}
}

func (p InterestProfile) IsEmpty() bool {
	return len(p.Categories) == 0 && len(p.Keywords) == 0 &&
		len(p.Brands) == 0 && p.PriceWeight == 0
}

// TopCategory returns the highest weighted category, ties broken
// alphabetically so the result is deterministic.
func (p InterestProfile) TopCategory() string {
	return topKey(p.Categories)
}

func (p InterestProfile) TopBrand() string {
	return topKey(p.Brands)
}

// CategoryShare returns the category's share of total category weight, in
// [0, 1]. A no-match category scores zero.
func (p InterestProfile) CategoryShare(category string) float64 {
	if category == "" {
		return 0
	}
	total := 0.0
	for _, w := range p.Categories {
		total += w
	}
	if total == 0 {
		return 0
	}
	return p.Categories[category] / total
}

// PriceBand derives the preferred price range from the running weighted
// center. Nil when no priced activity has been observed.
func (p InterestProfile) PriceBand(tolerance float64) *PriceRange {
	if p.PriceWeight == 0 || p.PriceCenter <= 0 {
		return nil
	}
	return &PriceRange{
		Low:  p.PriceCenter * (1 - tolerance),
		High: p.PriceCenter * (1 + tolerance),
	}
}

func topKey(m map[string]float64) string {
	best := ""
	bestW := 0.0
	for k, w := range m {
		if w > bestW || (w == bestW && w > 0 && (best == "" || k < best)) {
			best = k
			bestW = w
		}
	}
	return best
}
