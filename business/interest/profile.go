package interest

import (
	"math"
	"sort"
	"time"

	"marketSense/domain"
)

// decayFactor is 0.5^(age/halfLife): monotonically non-increasing in age,
// 1.0 for brand-new activity. Negative ages (clock skew) clamp to 1.0.
func (c Config) decayFactor(age time.Duration) float64 {
	if age <= 0 {
		return 1.0
	}
	if c.HalfLife <= 0 {
		return 1.0
	}
	return math.Pow(0.5, age.Seconds()/c.HalfLife.Seconds())
}

// ActivityWeight is the decayed contribution of one activity at time now.
func (c Config) ActivityWeight(act domain.ActivityRecord, now time.Time) float64 {
	base, ok := c.BaseWeights[act.Kind]
	if !ok {
		return 0
	}
	return base * c.decayFactor(now.Sub(act.CreatedAt))
}

// advance rescales every counter by the decay accumulated since the profile
// was last decayed, then pins the profile to now. Exponential decay composes
// multiplicatively, so advancing and then folding at now is identical to
// rebuilding with now pinned.
func (c Config) advance(p *domain.InterestProfile, now time.Time) {
	if p.DecayedAt.IsZero() {
		p.DecayedAt = now
		return
	}

	age := now.Sub(p.DecayedAt)
	if age <= 0 {
		return
	}

	factor := c.decayFactor(age)
	if factor >= 1 {
		return
	}

	for k, w := range p.Categories {
		p.Categories[k] = w * factor
	}
	for k, w := range p.Keywords {
		p.Keywords[k] = w * factor
	}
	for k, w := range p.Brands {
		p.Brands[k] = w * factor
	}
	// uniform scaling leaves the weighted price mean unchanged
	p.PriceWeight *= factor

	p.DecayedAt = now
}

// Apply folds one activity into the profile. Rebuild is defined as Apply
// repeated over the full history in timestamp order, so the two paths can
// never diverge.
func (c Config) Apply(p *domain.InterestProfile, act domain.ActivityRecord, now time.Time) {
	c.advance(p, now)

	w := c.ActivityWeight(act, now)
	if w <= 0 {
		return
	}

	if act.Category != "" {
		p.Categories[act.Category] += w
	}
	if act.Brand != "" {
		p.Brands[act.Brand] += w
	}
	for _, kw := range act.Keywords {
		p.Keywords[kw] += w
	}
	capKeywords(p, c.MaxKeywords)

	if act.ListingPrice != nil && *act.ListingPrice > 0 {
		// weighted running mean of observed listing prices
		total := p.PriceWeight + w
		p.PriceCenter = (p.PriceCenter*p.PriceWeight + *act.ListingPrice*w) / total
		p.PriceWeight = total
	}

	if act.CreatedAt.After(p.UpdatedAt) {
		p.UpdatedAt = act.CreatedAt
	}
}

// Rebuild recomputes a profile from the full stored history. No history
// yields an empty profile, which is a valid terminal state.
func (c Config) Rebuild(history []domain.ActivityRecord, now time.Time) domain.InterestProfile {
	p := domain.NewInterestProfile()
	for _, act := range history {
		c.Apply(&p, act, now)
	}
	return p
}

// capKeywords evicts the smallest-weight keywords once the counter exceeds
// the cap, so long-lived profiles stay bounded.
func capKeywords(p *domain.InterestProfile, max int) {
	if max <= 0 || len(p.Keywords) <= max {
		return
	}

	type kw struct {
		key    string
		weight float64
	}
	all := make([]kw, 0, len(p.Keywords))
	for k, w := range p.Keywords {
		all = append(all, kw{key: k, weight: w})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].weight == all[j].weight {
			return all[i].key < all[j].key
		}
		return all[i].weight < all[j].weight
	})

	toDrop := len(p.Keywords) - max
	for i := 0; i < toDrop && i < len(all); i++ {
		delete(p.Keywords, all[i].key)
	}
}
