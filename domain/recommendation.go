package domain

import "time"

// Algorithm identifies which recommendation source surfaced a listing.
type Algorithm string

const (
	AlgoPersonalized Algorithm = "personalized"
	AlgoSimilar      Algorithm = "similar"
	AlgoTrending     Algorithm = "trending"
	AlgoForYou       Algorithm = "for-you"
)

func (a Algorithm) Valid() bool {
	switch a {
	case AlgoPersonalized, AlgoSimilar, AlgoTrending, AlgoForYou:
		return true
	}
	return false
}

// ScoredListing is one ranked recommendation result.
type ScoredListing struct {
	ListingID uint64  `json:"listing_id"`
	Score     float64 `json:"score"`
}

// RecommendationRecord tracks one shown recommendation for CTR reporting.
// Created when a recommendation is surfaced; mutated once (click flag) if
// followed; deleted only by a history purge.
type RecommendationRecord struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	IdentityKey string     `gorm:"column:identity_key;not null;index" json:"identity_key"`
	ListingID   uint64     `gorm:"column:listing_id;not null" json:"listing_id"`
	Algorithm   Algorithm  `gorm:"column:algorithm;not null" json:"algorithm"`
	Score       float64    `gorm:"column:score;type:numeric" json:"score"`
	ShownAt     time.Time  `gorm:"column:shown_at;autoCreateTime" json:"shown_at"`
	Clicked     bool       `gorm:"column:clicked;default:false" json:"clicked"`
	ClickedAt   *time.Time `gorm:"column:clicked_at" json:"clicked_at,omitempty"`
}

func (RecommendationRecord) TableName() string {
	return "recommendation_log"
}
