package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// PurchaseOrder tracks a restocking order against a supplier. TotalAmount
// is always recomputed from the item rows, never patched incrementally.
type PurchaseOrder struct {
	ID                   uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	PONumber             string                    `gorm:"column:po_number;not null;uniqueIndex"`
	SupplierID           uuid.UUID                 `gorm:"column:supplier_id;type:uuid;not null"`
	Status               enums.PurchaseOrderStatus `gorm:"column:status;not null;default:'draft'"`
	OrderDate            *time.Time                `gorm:"column:order_date"`
	ExpectedDeliveryDate *time.Time                `gorm:"column:expected_delivery_date"`
	DeliveryDate         *time.Time                `gorm:"column:delivery_date"`
	Notes                *string                   `gorm:"column:notes"`
	CreatedBy            uuid.UUID                 `gorm:"column:created_by;type:uuid;not null"`
	TotalAmount          decimal.Decimal           `gorm:"column:total_amount;type:numeric(10,2);not null;default:0"`
	CreatedAt            time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                 `gorm:"column:updated_at;autoUpdateTime"`

	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
}
