package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"marketSense/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterestRepository struct {
	DB *gorm.DB
}

func NewInterestRepository(db *gorm.DB) *InterestRepository {
	return &InterestRepository{DB: db}
}

// interestProfileRow stores the aggregated profile as one JSON blob per
// identity. The profile is always rebuildable from activity_records, so the
// row is a materialization, not a source of truth.
type interestProfileRow struct {
	IdentityKey string    `gorm:"column:identity_key;primaryKey"`
	ProfileJSON []byte    `gorm:"column:profile_json"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (interestProfileRow) TableName() string {
	return "interest_profiles"
}

func (r *InterestRepository) GetProfile(ctx context.Context, identityKey string) (*domain.InterestProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row interestProfileRow
	err := r.DB.WithContext(ctx).First(&row, "identity_key = ?", identityKey).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query interest_profiles: %w", err)
	}

	var profile domain.InterestProfile
	if err := json.Unmarshal(row.ProfileJSON, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile_json: %w", err)
	}

	return &profile, nil
}

func (r *InterestRepository) SaveProfile(ctx context.Context, identityKey string, profile *domain.InterestProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	row := interestProfileRow{
		IdentityKey: identityKey,
		ProfileJSON: raw,
		UpdatedAt:   profile.UpdatedAt,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity_key"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert interest_profiles: %w", err)
	}

	return nil
}

func (r *InterestRepository) DeleteProfile(ctx context.Context, identityKey string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("identity_key = ?", identityKey).
		Delete(&interestProfileRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete interest profile: %w", result.Error)
	}

	return nil
}
