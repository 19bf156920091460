package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketSense/domain"
	"time"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

func (r *RecommendationRepository) SaveAll(ctx context.Context, records []domain.RecommendationRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("failed to save recommendation records: %w", err)
	}

	return nil
}

// MarkClicked flags the most recent unclicked record for the
// identity/listing/algorithm triple. Returns false when nothing matched.
func (r *RecommendationRepository) MarkClicked(ctx context.Context, identityKey string, listingID uint64, algorithm domain.Algorithm, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var record domain.RecommendationRecord
	err := r.DB.WithContext(ctx).
		Where("identity_key = ? AND listing_id = ? AND algorithm = ? AND clicked = ?",
			identityKey, listingID, algorithm, false).
		Order("shown_at DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find recommendation record: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.RecommendationRecord{}).
		Where("id = ? AND clicked = ?", record.ID, false).
		Updates(map[string]interface{}{
			"clicked":    true,
			"clicked_at": at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark recommendation clicked: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *RecommendationRepository) FindByIdentitySince(ctx context.Context, identityKey string, since time.Time) ([]domain.RecommendationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.RecommendationRecord
	err := r.DB.WithContext(ctx).
		Where("identity_key = ? AND shown_at >= ?", identityKey, since).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recommendation records: %w", err)
	}

	return records, nil
}

func (r *RecommendationRepository) DeleteByIdentity(ctx context.Context, identityKey string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("identity_key = ?", identityKey).
		Delete(&domain.RecommendationRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete recommendation records: %w", result.Error)
	}

	return nil
}
