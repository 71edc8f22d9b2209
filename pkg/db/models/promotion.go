package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion is a storewide percentage discount bounded by a time window.
type Promotion struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title           string          `gorm:"column:title;not null"`
	Description     string          `gorm:"column:description;not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	StartDate       time.Time       `gorm:"column:start_date;not null"`
	EndDate         time.Time       `gorm:"column:end_date;not null"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// IsValidAt reports whether the promotion applies at the given instant.
func (p *Promotion) IsValidAt(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartDate) && !now.After(p.EndDate)
}
