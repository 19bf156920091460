//go:build !integration

package interest

import (
	"fmt"
	"math"
	"testing"
	"time"

	"marketSense/domain"
)

func activityAt(kind domain.ActivityKind, category string, age time.Duration, now time.Time) domain.ActivityRecord {
	return domain.ActivityRecord{
		IdentityKey: "user:1",
		Kind:        kind,
		Category:    category,
		CreatedAt:   now.Add(-age),
	}
}

func TestDecayFactor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HalfLife = 24 * time.Hour

	if got := cfg.decayFactor(0); got != 1.0 {
		t.Fatalf("zero age decay = %v, want 1.0", got)
	}
	if got := cfg.decayFactor(-time.Hour); got != 1.0 {
		t.Fatalf("negative age decay = %v, want 1.0 (clock skew clamp)", got)
	}
	if got := cfg.decayFactor(24 * time.Hour); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("one half-life decay = %v, want 0.5", got)
	}
	if got := cfg.decayFactor(48 * time.Hour); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("two half-lives decay = %v, want 0.25", got)
	}

	// monotonically non-increasing in age
	prev := 1.0
	for h := 1; h <= 200; h += 7 {
		cur := cfg.decayFactor(time.Duration(h) * time.Hour)
		if cur > prev {
			t.Fatalf("decay increased at age %dh: %v > %v", h, cur, prev)
		}
		prev = cur
	}
}

func TestActivityWeight_KindOrdering(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	weight := func(kind domain.ActivityKind) float64 {
		return cfg.ActivityWeight(activityAt(kind, "Electronics", time.Hour, now), now)
	}

	if !(weight(domain.ActivityFavorite) > weight(domain.ActivityMessage)) ||
		!(weight(domain.ActivityMessage) > weight(domain.ActivityClick)) ||
		!(weight(domain.ActivityClick) > weight(domain.ActivityView)) ||
		!(weight(domain.ActivityView) > weight(domain.ActivitySearch)) {
		t.Fatal("kind weights out of order: favorite > message > click > view > search")
	}
}

func TestActivityWeight_RecencyBeatsAge(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	recent := cfg.ActivityWeight(activityAt(domain.ActivityView, "Electronics", time.Hour, now), now)
	old := cfg.ActivityWeight(activityAt(domain.ActivityView, "Electronics", 90*24*time.Hour, now), now)

	if recent <= old {
		t.Fatalf("recent view %v should outweigh 90-day-old view %v", recent, old)
	}
}

func TestRebuild_EqualsFoldOfUpdates(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	history := []domain.ActivityRecord{
		activityAt(domain.ActivitySearch, "Electronics", 72*time.Hour, now),
		activityAt(domain.ActivityView, "Electronics", 48*time.Hour, now),
		activityAt(domain.ActivityFavorite, "Furniture", 24*time.Hour, now),
		activityAt(domain.ActivityClick, "Electronics", time.Hour, now),
	}
	history[0].Keywords = []string{"iphone 13", "iphone"}
	history[1].Keywords = []string{"iphone"}
	price := 450.0
	history[2].ListingPrice = &price

	rebuilt := cfg.Rebuild(history, now)

	folded := domain.NewInterestProfile()
	for _, act := range history {
		cfg.Apply(&folded, act, now)
	}

	for cat, w := range rebuilt.Categories {
		if math.Abs(folded.Categories[cat]-w) > 1e-9 {
			t.Fatalf("category %q: rebuild %v != fold %v", cat, w, folded.Categories[cat])
		}
	}
	for kw, w := range rebuilt.Keywords {
		if math.Abs(folded.Keywords[kw]-w) > 1e-9 {
			t.Fatalf("keyword %q: rebuild %v != fold %v", kw, w, folded.Keywords[kw])
		}
	}
	if math.Abs(rebuilt.PriceCenter-folded.PriceCenter) > 1e-9 {
		t.Fatalf("price center: rebuild %v != fold %v", rebuilt.PriceCenter, folded.PriceCenter)
	}
}

func TestRecordTimeFolds_MatchRebuild(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	old := activityAt(domain.ActivityFavorite, "Furniture", 300*24*time.Hour, now)
	recent := activityAt(domain.ActivityView, "Electronics", time.Hour, now)
	history := []domain.ActivityRecord{old, recent}

	// fold each activity at its own record time, then decay up to now, the
	// way incremental materialization sees them
	p := domain.NewInterestProfile()
	for _, act := range history {
		cfg.Apply(&p, act, act.CreatedAt)
	}
	cfg.advance(&p, now)

	want := cfg.Rebuild(history, now)

	for _, cat := range []string{"Furniture", "Electronics"} {
		got, expect := p.Categories[cat], want.Categories[cat]
		if math.Abs(got-expect) > 1e-9*(1+math.Abs(expect)) {
			t.Fatalf("category %q: record-time fold %v != rebuild %v", cat, got, expect)
		}
	}

	// the decayed 300-day-old favorite must not outweigh today's view
	if p.TopCategory() != "Electronics" {
		t.Fatalf("top category = %q, want Electronics (old favorite must decay)", p.TopCategory())
	}
}

func TestRebuild_EmptyHistory(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Rebuild(nil, time.Now())
	if !p.IsEmpty() {
		t.Fatalf("empty history produced non-empty profile: %+v", p)
	}
}

func TestApply_FavoriteOutweighsView(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	p := domain.NewInterestProfile()
	cfg.Apply(&p, activityAt(domain.ActivityFavorite, "Furniture", time.Hour, now), now)
	cfg.Apply(&p, activityAt(domain.ActivityView, "Electronics", time.Hour, now), now)

	if p.TopCategory() != "Furniture" {
		t.Fatalf("top category = %q, want Furniture (favorite outweighs view)", p.TopCategory())
	}
}

func TestApply_WeightedPriceCenter(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	p := domain.NewInterestProfile()

	a := activityAt(domain.ActivityView, "Electronics", 0, now)
	priceA := 100.0
	a.ListingPrice = &priceA
	cfg.Apply(&p, a, now)

	b := activityAt(domain.ActivityView, "Electronics", 0, now)
	priceB := 300.0
	b.ListingPrice = &priceB
	cfg.Apply(&p, b, now)

	// equal weights: center is the plain mean
	if math.Abs(p.PriceCenter-200.0) > 1e-9 {
		t.Fatalf("price center = %v, want 200", p.PriceCenter)
	}

	band := p.PriceBand(cfg.PriceTolerance)
	if band == nil {
		t.Fatal("priced profile returned nil band")
	}
	if !band.Contains(200) || band.Contains(1000) {
		t.Fatalf("band %+v should contain 200 and exclude 1000", band)
	}
}

func TestCapKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxKeywords = 10
	now := time.Now()

	p := domain.NewInterestProfile()
	for i := 0; i < 50; i++ {
		act := activityAt(domain.ActivitySearch, "", time.Duration(i)*time.Hour, now)
		act.Keywords = []string{fmt.Sprintf("kw-%02d", i)}
		cfg.Apply(&p, act, now)
	}

	if len(p.Keywords) != cfg.MaxKeywords {
		t.Fatalf("keyword counter size = %d, want cap %d", len(p.Keywords), cfg.MaxKeywords)
	}
	// the newest (heaviest) keyword survives eviction
	if _, ok := p.Keywords["kw-00"]; !ok {
		t.Fatal("heaviest keyword was evicted")
	}
}
