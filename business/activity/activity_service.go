package activity

import (
	"context"
	"fmt"

	"marketSense/business/keyword"
	"marketSense/domain"
	"marketSense/pkg/logger"
	"marketSense/pkg/metrics"

	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

type ActivityRepository interface {
	Save(ctx context.Context, record *domain.ActivityRecord) error
	FindByIdentity(ctx context.Context, identityKey string) ([]domain.ActivityRecord, error)
}

type ListingRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Listing, error)
}

// ProfileUpdater folds a freshly recorded activity into the identity's
// interest profile so reads never see a materialization that misses it.
type ProfileUpdater interface {
	Update(ctx context.Context, identity domain.Identity, act domain.ActivityRecord) (domain.InterestProfile, error)
}

// ---- Usecase / Service ----

// RecordInput is the caller-supplied payload for one activity.
type RecordInput struct {
	Kind       domain.ActivityKind
	ListingID  *uint64
	SearchText string
	Duration   *float64
}

type Service struct {
	activityRepo ActivityRepository
	listingRepo  ListingRepository
	updater      ProfileUpdater
}

func NewService(activityRepo ActivityRepository, listingRepo ListingRepository, updater ProfileUpdater) *Service {
	return &Service{
		activityRepo: activityRepo,
		listingRepo:  listingRepo,
		updater:      updater,
	}
}

// Record validates, annotates and appends one immutable activity record,
// then folds it into the interest profile. Recording the same event twice is
// tolerated (double-counted in aggregation, never rejected).
func (s *Service) Record(ctx context.Context, identity domain.Identity, in RecordInput) (domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("context error: %w", err)
	}

	if err := validate(identity, in); err != nil {
		return domain.ActivityRecord{}, err
	}

	record := domain.ActivityRecord{
		IdentityKey: identity.Key(),
		Kind:        in.Kind,
		ListingID:   in.ListingID,
		SearchText:  in.SearchText,
		DurationSec: in.Duration,
	}

	if in.Kind == domain.ActivitySearch {
		annotate(&record, keyword.Extract(in.SearchText))
	} else {
		listing, err := s.listingRepo.FindByID(ctx, *in.ListingID)
		if err != nil {
			return domain.ActivityRecord{}, err
		}

		annotate(&record, keyword.Extract(listing.Title+" "+listing.Description))

		// catalog fields win over extracted guesses
		if listing.Category != "" {
			record.Category = listing.Category
		}
		if listing.Brand != "" {
			record.Brand = listing.Brand
		}
		if listing.Price > 0 {
			price := listing.Price
			record.ListingPrice = &price
		}
	}

	if err := s.activityRepo.Save(ctx, &record); err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("failed to save activity: %w", err)
	}

	// The record is the source of truth; a failed profile fold is recovered
	// by the next full rebuild, so it never fails the request.
	if s.updater != nil {
		if _, err := s.updater.Update(ctx, identity, record); err != nil {
			logger.Warn("profile update failed", "identity", identity.Key(), "error", err)
		}
	}

	metrics.ActivityEventsTotal.WithLabelValues(string(in.Kind)).Inc()

	logger.Debug("activity recorded",
		"identity", identity.Key(),
		"kind", record.Kind,
		"keywords", len(record.Keywords),
		"category", record.Category,
		"brand", record.Brand,
	)

	return record, nil
}

// History returns the identity's full activity history in timestamp order.
func (s *Service) History(ctx context.Context, identity domain.Identity) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.activityRepo.FindByIdentity(ctx, identity.Key())
}

func validate(identity domain.Identity, in RecordInput) error {
	if identity.IsZero() {
		return fmt.Errorf("%w: identity is required", domain.ErrInvalidActivity)
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidActivity, in.Kind)
	}
	if in.Kind == domain.ActivitySearch && in.SearchText == "" {
		return fmt.Errorf("%w: search requires search_text", domain.ErrInvalidActivity)
	}
	if in.Kind.RequiresListing() && (in.ListingID == nil || *in.ListingID == 0) {
		return fmt.Errorf("%w: %s requires listing_id", domain.ErrInvalidActivity, in.Kind)
	}
	if in.Duration != nil && *in.Duration < 0 {
		return fmt.Errorf("%w: duration must be >= 0", domain.ErrInvalidActivity)
	}
	return nil
}

func annotate(record *domain.ActivityRecord, ex keyword.Extraction) {
	record.Keywords = datatypes.NewJSONSlice(ex.Keywords)
	record.Category = ex.Category
	record.Brand = ex.Brand
}
