package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are assigned here rather than by a database default so the
// same models work against postgres and the sqlite driver used in tests.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *CartItem) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *InventoryLog) BeforeCreate(*gorm.DB) error      { ensureID(&m.ID); return nil }
func (m *Order) BeforeCreate(*gorm.DB) error             { ensureID(&m.ID); return nil }
func (m *OrderItem) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *Permission) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *Product) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (m *Promotion) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *PurchaseOrder) BeforeCreate(*gorm.DB) error     { ensureID(&m.ID); return nil }
func (m *PurchaseOrderItem) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *Role) BeforeCreate(*gorm.DB) error              { ensureID(&m.ID); return nil }
func (m *RoleAssignment) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (m *Slide) BeforeCreate(*gorm.DB) error             { ensureID(&m.ID); return nil }
func (m *Supplier) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *User) BeforeCreate(*gorm.DB) error              { ensureID(&m.ID); return nil }
