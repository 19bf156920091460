package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"marketSense/domain"
	"marketSense/pkg/logger"
)

const (
	defaultWindowDays = 30
	topN              = 5
)

// ---- Repository interfaces ----

type ActivityRepository interface {
	FindByIdentitySince(ctx context.Context, identityKey string, since time.Time) ([]domain.ActivityRecord, error)
	DeleteByIdentity(ctx context.Context, identityKey string) error
}

type RecommendationRepository interface {
	FindByIdentitySince(ctx context.Context, identityKey string, since time.Time) ([]domain.RecommendationRecord, error)
	DeleteByIdentity(ctx context.Context, identityKey string) error
}

// ProfilePurger removes the identity's interest profile from store and cache.
type ProfilePurger interface {
	Purge(ctx context.Context, identity domain.Identity) error
}

// ---- Usecase / Service ----

// Config mirrors the interest aggregation weights for in-window relevance
// plus the engagement score shape.
type Config struct {
	BaseWeights map[domain.ActivityKind]float64

	// events needed for the volume term to reach ~63% of its ceiling
	EngagementVolumeScale float64

	// price band width for the dashboard price summary
	PriceTolerance float64
}

func DefaultConfig() Config {
	return Config{
		BaseWeights: map[domain.ActivityKind]float64{
			domain.ActivitySearch:   1,
			domain.ActivityView:     2,
			domain.ActivityClick:    3,
			domain.ActivityMessage:  4,
			domain.ActivityFavorite: 5,
		},
		EngagementVolumeScale: 12,
		PriceTolerance:        0.3,
	}
}

type Service struct {
	activityRepo ActivityRepository
	recRepo      RecommendationRepository
	purger       ProfilePurger
	cfg          Config
}

func NewService(activityRepo ActivityRepository, recRepo RecommendationRepository, purger ProfilePurger, cfg Config) *Service {
	return &Service{
		activityRepo: activityRepo,
		recRepo:      recRepo,
		purger:       purger,
		cfg:          cfg,
	}
}

// Dashboard aggregates the identity's window of activity into the summary
// served to the personal analytics page. A never-seen identity gets the
// empty summary, not an error.
func (s *Service) Dashboard(ctx context.Context, identity domain.Identity, windowDays int) (domain.DashboardSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("context error: %w", err)
	}
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)
	key := identity.Key()

	activities, err := s.activityRepo.FindByIdentitySince(ctx, key, since)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("load window activity: %w", err)
	}

	recRecords, err := s.recRepo.FindByIdentitySince(ctx, key, since)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("load recommendation log: %w", err)
	}

	summary := domain.DashboardSummary{
		WindowDays:      windowDays,
		ActivityCounts:  make(map[domain.ActivityKind]int),
		TotalActivities: len(activities),
	}

	categories := make(map[string]float64)
	brands := make(map[string]float64)
	keywords := make(map[string]float64)
	days := make(map[string]int)
	kindsSeen := make(map[domain.ActivityKind]struct{})

	priceSum := 0.0
	priceWeight := 0.0

	for _, act := range activities {
		summary.ActivityCounts[act.Kind]++
		kindsSeen[act.Kind] = struct{}{}
		days[act.CreatedAt.Format("2006-01-02")]++

		w := s.cfg.BaseWeights[act.Kind]
		if act.Category != "" {
			categories[act.Category] += w
		}
		if act.Brand != "" {
			brands[act.Brand] += w
		}
		for _, kw := range act.Keywords {
			keywords[kw] += w
		}
		if act.ListingPrice != nil && *act.ListingPrice > 0 {
			priceSum += *act.ListingPrice * w
			priceWeight += w
		}
	}

	summary.TopCategories = categoryShares(categories, topN)
	summary.Brands = brandShares(brands, topN)
	summary.TopKeywords = keywordRanking(keywords, topN)
	summary.Timeline = timeline(days)

	if priceWeight > 0 {
		center := priceSum / priceWeight
		summary.PriceRange = &domain.PriceRange{
			Low:  center * (1 - s.cfg.PriceTolerance),
			High: center * (1 + s.cfg.PriceTolerance),
		}
	}

	summary.EngagementScore = s.engagementScore(len(activities), len(kindsSeen), len(categories))
	summary.Recommendations = ctrSummary(recRecords)

	return summary, nil
}

// ClearHistory purges all activity, interest and recommendation state for
// the identity. Afterward every read behaves as for a brand-new identity.
func (s *Service) ClearHistory(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	key := identity.Key()

	if err := s.activityRepo.DeleteByIdentity(ctx, key); err != nil {
		return fmt.Errorf("purge activity history: %w", err)
	}
	if err := s.recRepo.DeleteByIdentity(ctx, key); err != nil {
		return fmt.Errorf("purge recommendation log: %w", err)
	}
	if s.purger != nil {
		if err := s.purger.Purge(ctx, identity); err != nil {
			return fmt.Errorf("purge interest profile: %w", err)
		}
	}

	logger.Info("history cleared", "identity", key)
	return nil
}

// engagementScore is a bounded [0, 100] composite: a saturating volume term
// scaled by kind and category diversity. Monotone in activity volume,
// diminishing returns instead of unbounded growth.
func (s *Service) engagementScore(events, kinds, categories int) float64 {
	if events == 0 {
		return 0
	}

	scale := s.cfg.EngagementVolumeScale
	if scale <= 0 {
		scale = 1
	}
	volume := 1 - math.Exp(-float64(events)/scale)

	kindDiversity := float64(kinds) / float64(len(domain.ActivityKinds))
	categoryDiversity := float64(categories) / float64(categories+2)

	score := 100 * volume * (0.5 + 0.25*kindDiversity + 0.25*categoryDiversity)
	if score > 100 {
		score = 100
	}
	return score
}

func ctrSummary(records []domain.RecommendationRecord) domain.CTRSummary {
	byAlgo := make(map[domain.Algorithm]domain.AlgorithmCTR)
	overall := domain.AlgorithmCTR{}

	for _, rec := range records {
		entry := byAlgo[rec.Algorithm]
		entry.Shown++
		overall.Shown++
		if rec.Clicked {
			entry.Clicked++
			overall.Clicked++
		}
		byAlgo[rec.Algorithm] = entry
	}

	// rate is 0, never undefined, when nothing was shown
	for algo, entry := range byAlgo {
		if entry.Shown > 0 {
			entry.Rate = float64(entry.Clicked) / float64(entry.Shown)
		}
		byAlgo[algo] = entry
	}
	if overall.Shown > 0 {
		overall.Rate = float64(overall.Clicked) / float64(overall.Shown)
	}

	return domain.CTRSummary{Overall: overall, ByAlgorithm: byAlgo}
}

func categoryShares(weights map[string]float64, n int) []domain.CategoryShare {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	out := make([]domain.CategoryShare, 0, len(weights))
	for cat, w := range weights {
		share := domain.CategoryShare{Category: cat, Count: w}
		if total > 0 {
			share.Percent = 100 * w / total
		}
		out = append(out, share)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Category < out[j].Category
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func brandShares(weights map[string]float64, n int) []domain.BrandShare {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	out := make([]domain.BrandShare, 0, len(weights))
	for brand, w := range weights {
		share := domain.BrandShare{Brand: brand, Count: w}
		if total > 0 {
			share.Percent = 100 * w / total
		}
		out = append(out, share)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func keywordRanking(weights map[string]float64, n int) []domain.KeywordRelevance {
	out := make([]domain.KeywordRelevance, 0, len(weights))
	for kw, w := range weights {
		out = append(out, domain.KeywordRelevance{Keyword: kw, Relevance: w})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Relevance == out[j].Relevance {
			return out[i].Keyword < out[j].Keyword
		}
		return out[i].Relevance > out[j].Relevance
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func timeline(days map[string]int) []domain.DayCount {
	out := make([]domain.DayCount, 0, len(days))
	for day, count := range days {
		out = append(out, domain.DayCount{Date: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
