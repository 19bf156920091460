package postgres

import (
	"context"
	"fmt"
	"marketSense/domain"
	"time"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{
		DB: db,
	}
}

func (r *ActivityRepository) Save(ctx context.Context, record *domain.ActivityRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to save activity record: %w", err)
	}

	return nil
}

// FindByIdentity returns the identity's full activity history, oldest first,
// so callers can fold it in recording order.
func (r *ActivityRepository) FindByIdentity(ctx context.Context, identityKey string) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.ActivityRecord
	err := r.DB.WithContext(ctx).
		Where("identity_key = ?", identityKey).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find activity records: %w", err)
	}

	return records, nil
}

func (r *ActivityRepository) FindByIdentitySince(ctx context.Context, identityKey string, since time.Time) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.ActivityRecord
	err := r.DB.WithContext(ctx).
		Where("identity_key = ? AND created_at >= ?", identityKey, since).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find activity records since: %w", err)
	}

	return records, nil
}

// FindTargetedSince returns listing-referencing activities across all
// identities within the window, for popularity aggregation.
func (r *ActivityRepository) FindTargetedSince(ctx context.Context, since time.Time) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.ActivityRecord
	err := r.DB.WithContext(ctx).
		Where("listing_id IS NOT NULL AND created_at >= ?", since).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find targeted activity records: %w", err)
	}

	return records, nil
}

func (r *ActivityRepository) FindFavoritedListingIDs(ctx context.Context, identityKey string) (map[uint64]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.ActivityRecord{}).
		Where("identity_key = ? AND kind = ? AND listing_id IS NOT NULL", identityKey, domain.ActivityFavorite).
		Distinct().
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorited listings: %w", err)
	}

	favorited := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		favorited[id] = true
	}

	return favorited, nil
}

func (r *ActivityRepository) DeleteByIdentity(ctx context.Context, identityKey string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("identity_key = ?", identityKey).
		Delete(&domain.ActivityRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete activity records: %w", result.Error)
	}

	return nil
}
