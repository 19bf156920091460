package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityKind string

const (
	ActivitySearch   ActivityKind = "search"
	ActivityView     ActivityKind = "view"
	ActivityClick    ActivityKind = "click"
	ActivityFavorite ActivityKind = "favorite"
	ActivityMessage  ActivityKind = "message"
)

// ActivityKinds lists the closed set of recordable kinds.
var ActivityKinds = []ActivityKind{
	ActivitySearch,
	ActivityView,
	ActivityClick,
	ActivityFavorite,
	ActivityMessage,
}

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivitySearch, ActivityView, ActivityClick, ActivityFavorite, ActivityMessage:
		return true
	}
	return false
}

// RequiresListing reports whether this kind must reference a listing.
// Only pure searches are allowed without a target.
func (k ActivityKind) RequiresListing() bool {
	return k != ActivitySearch
}

// ActivityRecord is one immutable user action. Keywords, category, brand and
// listing price are derived at record time and never mutated afterwards.
type ActivityRecord struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	IdentityKey string                      `gorm:"column:identity_key;not null;index" json:"identity_key"`
	Kind        ActivityKind                `gorm:"column:kind;not null" json:"kind"`
	ListingID   *uint64                     `gorm:"column:listing_id" json:"listing_id,omitempty"`
	SearchText  string                      `gorm:"column:search_text;type:text" json:"search_text,omitempty"`
	Keywords    datatypes.JSONSlice[string] `gorm:"column:keywords;type:jsonb" json:"keywords"`
	Category    string                      `gorm:"column:category;type:text" json:"category,omitempty"`
	Brand       string                      `gorm:"column:brand;type:text" json:"brand,omitempty"`
	ListingPrice *float64                   `gorm:"column:listing_price;type:numeric" json:"listing_price,omitempty"`
	DurationSec *float64                    `gorm:"column:duration_sec;type:numeric" json:"duration_sec,omitempty"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ActivityRecord) TableName() string {
	return "activity_records"
}
