package domain

import (
	"time"
)

// CREATE TABLE public.listings (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     owner_id    BIGINT,
//     title       TEXT,
//     description TEXT,
//     category    TEXT,
//     brand       TEXT,
//     price       NUMERIC,
//     is_active   BOOLEAN DEFAULT TRUE,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

// Listing is the catalog entity. The recommendation core reads listings to
// score and to extract comparison keywords; writes belong to the listing
// management collaborator.
type Listing struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint      `gorm:"column:owner_id" json:"owner_id"`
	Title       string    `gorm:"column:title;type:text" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Category    string    `gorm:"column:category;type:text" json:"category"`
	Brand       string    `gorm:"column:brand;type:text" json:"brand"`
	Price       float64   `gorm:"column:price;type:numeric" json:"price"`
	IsActive    bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Listing) TableName() string {
	return "listings"
}
