package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// InventoryLog is an append-only record of one stock mutation. Rows are
// created once and never updated or deleted.
type InventoryLog struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	QuantityChange int               `gorm:"column:quantity_change;not null"`
	PreviousStock  int               `gorm:"column:previous_stock;not null"`
	NewStock       int               `gorm:"column:new_stock;not null"`
	Reason         enums.StockReason `gorm:"column:reason;not null"`
	Reference      *string           `gorm:"column:reference"`
	ActorID        *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
