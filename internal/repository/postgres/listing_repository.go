package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketSense/domain"

	"gorm.io/gorm"
)

type ListingRepository struct {
	DB *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{
		DB: db,
	}
}

func (r *ListingRepository) FindByID(ctx context.Context, id uint64) (domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return domain.Listing{}, fmt.Errorf("context error: %w", err)
	}

	var listing domain.Listing

	err := r.DB.WithContext(ctx).First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Listing{}, domain.ErrUnknownListing
		}
		return domain.Listing{}, fmt.Errorf("failed to find listing: %w", err)
	}

	return listing, nil
}

func (r *ListingRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(ids) == 0 {
		return map[uint64]domain.Listing{}, nil
	}

	var listings []domain.Listing
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find listings by ids: %w", err)
	}

	byID := make(map[uint64]domain.Listing, len(listings))
	for _, listing := range listings {
		byID[listing.ID] = listing
	}

	return byID, nil
}

func (r *ListingRepository) FindActive(ctx context.Context) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var listings []domain.Listing
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active listings: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) FindByCategoryOrBrand(ctx context.Context, category, brand string) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Where("is_active = ?", true)
	switch {
	case category != "" && brand != "":
		q = q.Where("category = ? OR brand = ?", category, brand)
	case category != "":
		q = q.Where("category = ?", category)
	case brand != "":
		q = q.Where("brand = ?", brand)
	}

	var listings []domain.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to find listings by category or brand: %w", err)
	}

	return listings, nil
}
