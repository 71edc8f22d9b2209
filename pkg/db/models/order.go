package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// Order is created atomically with its items at checkout. TotalAmount is a
// snapshot frozen once the items are written.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber      string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentReference *string             `gorm:"column:payment_reference"`
	ShippingAddress  string              `gorm:"column:shipping_address;not null"`
	ShippingCity     string              `gorm:"column:shipping_city;not null"`
	ShippingCountry  string              `gorm:"column:shipping_country;not null;default:'Ghana'"`
	ShippingPhone    string              `gorm:"column:shipping_phone;not null"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User  *User       `gorm:"foreignKey:UserID"`
}
