package reco

import (
	"context"
	"fmt"
	"sort"
	"time"

	"marketSense/business/keyword"
	"marketSense/domain"
	"marketSense/pkg/logger"
	"marketSense/pkg/metrics"
)

const defaultLimit = 10

// ---- Repository interfaces ----

type ListingRepository interface {
	FindActive(ctx context.Context) ([]domain.Listing, error)
	FindByID(ctx context.Context, id uint64) (domain.Listing, error)
	// FindByIDs resolves many listings in one round trip; ids absent from
	// the catalog are simply missing from the result.
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Listing, error)
	// FindByCategoryOrBrand narrows the candidate pool for similar-items
	// scoring; either argument may be empty.
	FindByCategoryOrBrand(ctx context.Context, category, brand string) ([]domain.Listing, error)
}

type ActivityRepository interface {
	// FindTargetedSince returns listing-referencing activities created at
	// or after since, across all identities.
	FindTargetedSince(ctx context.Context, since time.Time) ([]domain.ActivityRecord, error)
	// FindFavoritedListingIDs returns the set of listings the identity has
	// ever favorited.
	FindFavoritedListingIDs(ctx context.Context, identityKey string) (map[uint64]bool, error)
}

type RecommendationRepository interface {
	SaveAll(ctx context.Context, records []domain.RecommendationRecord) error
	// MarkClicked flags the most recent matching unclicked record. The
	// bool result reports whether a record matched.
	MarkClicked(ctx context.Context, identityKey string, listingID uint64, algorithm domain.Algorithm, at time.Time) (bool, error)
}

type ProfileProvider interface {
	Get(ctx context.Context, identity domain.Identity) (domain.InterestProfile, error)
}

// ---- Usecase / Service ----

type Service struct {
	listingRepo  ListingRepository
	activityRepo ActivityRepository
	recRepo      RecommendationRepository
	profiles     ProfileProvider
	cfg          Config
}

func NewService(
	listingRepo ListingRepository,
	activityRepo ActivityRepository,
	recRepo RecommendationRepository,
	profiles ProfileProvider,
	cfg Config,
) *Service {
	return &Service{
		listingRepo:  listingRepo,
		activityRepo: activityRepo,
		recRepo:      recRepo,
		profiles:     profiles,
		cfg:          cfg,
	}
}

type scoredListing struct {
	listing domain.Listing
	score   float64
}

// Personalized scores every active listing against the identity's interest
// profile. Listings the identity owns or has ever favorited are excluded.
// An empty profile falls back to Trending so a fresh identity never gets an
// empty feed while the catalog has activity.
func (s *Service) Personalized(ctx context.Context, identity domain.Identity, limit int, minScore float64) ([]domain.ScoredListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	recs, err := s.personalizedScores(ctx, identity, limit, minScore)
	if err != nil {
		return nil, err
	}

	s.recordShown(ctx, identity, domain.AlgoPersonalized, recs)
	return recs, nil
}

func (s *Service) personalizedScores(ctx context.Context, identity domain.Identity, limit int, minScore float64) ([]domain.ScoredListing, error) {
	profile, err := s.profiles.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load interest profile: %w", err)
	}

	if profile.IsEmpty() {
		logger.Debug("personalized fallback to trending", "identity", identity.Key())
		return s.trendingScores(ctx, "", limit)
	}

	listings, err := s.listingRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(listings) == 0 {
		return []domain.ScoredListing{}, nil
	}

	favorited, err := s.activityRepo.FindFavoritedListingIDs(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	scored := make([]scoredListing, 0, len(listings))
	for _, listing := range listings {
		if identity.UserID != 0 && listing.OwnerID == identity.UserID {
			continue
		}
		if favorited[listing.ID] {
			continue
		}

		kws := keyword.Extract(listing.Title + " " + listing.Description).Keywords
		score := s.cfg.personalScore(profile, listing, kws)
		if score < minScore {
			continue
		}
		scored = append(scored, scoredListing{listing: listing, score: score})
	}

	recs := topN(scored, limit)

	logger.Debug("personalized recommendations",
		"identity", identity.Key(),
		"candidates", len(listings),
		"returned", len(recs),
	)

	return recs, nil
}

// Similar ranks listings sharing category or brand with the reference
// listing. The reference itself is never part of the result.
func (s *Service) Similar(ctx context.Context, identity domain.Identity, listingID uint64, limit int) ([]domain.ScoredListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	ref, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.listingRepo.FindByCategoryOrBrand(ctx, ref.Category, ref.Brand)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	refKeywords := keyword.Extract(ref.Title + " " + ref.Description).Keywords

	scored := make([]scoredListing, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == ref.ID {
			continue
		}
		kws := keyword.Extract(candidate.Title + " " + candidate.Description).Keywords
		scored = append(scored, scoredListing{
			listing: candidate,
			score:   s.cfg.similarScore(ref, candidate, refKeywords, kws),
		})
	}

	recs := topN(scored, limit)
	s.recordShown(ctx, identity, domain.AlgoSimilar, recs)

	return recs, nil
}

// Trending ranks listings by weighted activity volume inside the trending
// window, optionally filtered to one category. Listings with zero window
// activity never appear.
func (s *Service) Trending(ctx context.Context, identity domain.Identity, category string, limit int) ([]domain.ScoredListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	recs, err := s.trendingScores(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	s.recordShown(ctx, identity, domain.AlgoTrending, recs)
	return recs, nil
}

// ForYou deterministically interleaves personalized and trending results:
// the personalized share first, trending fill after, deduplicated by
// listing id with relative order preserved within each source.
func (s *Service) ForYou(ctx context.Context, identity domain.Identity, limit int) ([]domain.ScoredListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	personalCount := int(float64(limit)*s.cfg.PersonalizedShare + 0.999)
	if personalCount > limit {
		personalCount = limit
	}

	personal, err := s.personalizedScores(ctx, identity, personalCount, 0)
	if err != nil {
		return nil, err
	}
	trending, err := s.trendingScores(ctx, "", limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, limit)
	feed := make([]domain.ScoredListing, 0, limit)
	for _, rec := range personal {
		if len(feed) >= limit {
			break
		}
		if _, dup := seen[rec.ListingID]; dup {
			continue
		}
		seen[rec.ListingID] = struct{}{}
		feed = append(feed, rec)
	}
	for _, rec := range trending {
		if len(feed) >= limit {
			break
		}
		if _, dup := seen[rec.ListingID]; dup {
			continue
		}
		seen[rec.ListingID] = struct{}{}
		feed = append(feed, rec)
	}

	s.recordShown(ctx, identity, domain.AlgoForYou, feed)
	return feed, nil
}

// TrackClick marks the most recent matching unclicked recommendation record
// as clicked. A click on a listing that was never surfaced is acknowledged
// as a no-op and does not touch CTR denominators.
func (s *Service) TrackClick(ctx context.Context, identity domain.Identity, listingID uint64, algorithm domain.Algorithm) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	matched, err := s.recRepo.MarkClicked(ctx, identity.Key(), listingID, algorithm, time.Now())
	if err != nil {
		return fmt.Errorf("track click: %w", err)
	}
	if !matched {
		logger.Debug("click on unshown recommendation ignored",
			"identity", identity.Key(),
			"listing_id", listingID,
			"algorithm", algorithm,
		)
	}
	return nil
}

// ---- internals ----

func (s *Service) trendingScores(ctx context.Context, category string, limit int) ([]domain.ScoredListing, error) {
	since := time.Now().Add(-s.cfg.TrendingWindow)

	rows, err := s.activityRepo.FindTargetedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load window activity: %w", err)
	}
	if len(rows) == 0 {
		return []domain.ScoredListing{}, nil
	}

	weights := make(map[uint64]float64)
	for _, row := range rows {
		if row.ListingID == nil {
			continue
		}
		weights[*row.ListingID] += s.cfg.BaseWeights[row.Kind]
	}

	ids := make([]uint64, 0, len(weights))
	for listingID := range weights {
		ids = append(ids, listingID)
	}

	listings, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve trending listings: %w", err)
	}

	// Normalization runs over the surviving candidates so the heaviest
	// listing in a filtered view still scores 1.0.
	candidates := make([]scoredListing, 0, len(weights))
	maxWeight := 0.0
	for listingID, w := range weights {
		listing, ok := listings[listingID]
		if !ok {
			// stale references must not break the whole batch
			continue
		}
		if !listing.IsActive {
			continue
		}
		if category != "" && listing.Category != category {
			continue
		}
		candidates = append(candidates, scoredListing{listing: listing, score: w})
		if w > maxWeight {
			maxWeight = w
		}
	}
	if maxWeight == 0 {
		return []domain.ScoredListing{}, nil
	}

	for i := range candidates {
		candidates[i].score /= maxWeight
	}

	return topN(candidates, limit), nil
}

// topN sorts descending by score, breaking ties by listing recency (newer
// first, then higher id), and truncates.
func topN(scored []scoredListing, limit int) []domain.ScoredListing {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].listing.CreatedAt.Equal(scored[j].listing.CreatedAt) {
			return scored[i].listing.CreatedAt.After(scored[j].listing.CreatedAt)
		}
		return scored[i].listing.ID > scored[j].listing.ID
	})

	if limit > len(scored) {
		limit = len(scored)
	}

	out := make([]domain.ScoredListing, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, domain.ScoredListing{
			ListingID: scored[i].listing.ID,
			Score:     scored[i].score,
		})
	}
	return out
}

// recordShown persists one RecommendationRecord per surfaced listing for
// CTR reporting. Failures are logged, never fatal to the read path.
func (s *Service) recordShown(ctx context.Context, identity domain.Identity, algorithm domain.Algorithm, recs []domain.ScoredListing) {
	if identity.IsZero() || len(recs) == 0 || s.recRepo == nil {
		return
	}

	now := time.Now()
	records := make([]domain.RecommendationRecord, 0, len(recs))
	for _, rec := range recs {
		records = append(records, domain.RecommendationRecord{
			IdentityKey: identity.Key(),
			ListingID:   rec.ListingID,
			Algorithm:   algorithm,
			Score:       rec.Score,
			ShownAt:     now,
		})
	}

	if err := s.recRepo.SaveAll(ctx, records); err != nil {
		logger.Warn("failed to log shown recommendations",
			"identity", identity.Key(),
			"algorithm", algorithm,
			"error", err,
		)
		return
	}

	metrics.RecommendationsServedTotal.
		WithLabelValues(string(algorithm)).
		Add(float64(len(recs)))
}
