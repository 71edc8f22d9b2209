package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// Product is a catalog listing. Stock is only ever mutated through the
// inventory service so every change lands in the inventory log.
type Product struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name              string                `gorm:"column:name;not null"`
	Description       string                `gorm:"column:description;not null"`
	Price             decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Stock             int                   `gorm:"column:stock;not null;default:0"`
	LowStockThreshold int                   `gorm:"column:low_stock_threshold;not null;default:5"`
	SKU               *string               `gorm:"column:sku;uniqueIndex"`
	ImageURL          *string               `gorm:"column:image_url"`
	Category          string                `gorm:"column:category;not null"`
	Brand             *string               `gorm:"column:brand"`
	Model             *string               `gorm:"column:model"`
	Specifications    json.RawMessage       `gorm:"column:specifications;type:jsonb"`
	WarrantyMonths    *int                  `gorm:"column:warranty_months;default:12"`
	Compatibility     pq.StringArray        `gorm:"column:compatibility;type:text[]"`
	Condition         enums.ProductCondition `gorm:"column:condition;not null;default:'new'"`
	SellerID          *uuid.UUID            `gorm:"column:seller_id;type:uuid"`
	SellerCommission  *decimal.Decimal      `gorm:"column:seller_commission;type:numeric(5,2)"`
	ApprovalStatus    enums.ApprovalStatus  `gorm:"column:approval_status;not null;default:'approved'"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock is a derived read, never stored.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
