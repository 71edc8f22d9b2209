package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderItem accumulates QuantityReceived across partial deliveries
// until it reaches QuantityOrdered.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseOrderID  uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	QuantityOrdered  int             `gorm:"column:quantity_ordered;not null"`
	QuantityReceived int             `gorm:"column:quantity_received;not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
