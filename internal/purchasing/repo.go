package purchasing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// Repository manages persistence for suppliers and purchase orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	UpdateSupplier(ctx context.Context, supplier *models.Supplier) error
	DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error
	FindSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)

	CreatePO(ctx context.Context, po *models.PurchaseOrder) error
	UpdatePO(ctx context.Context, po *models.PurchaseOrder) error
	DeletePO(ctx context.Context, poID uuid.UUID) error
	FindPO(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error)
	ListPOs(ctx context.Context, status *enums.PurchaseOrderStatus) ([]models.PurchaseOrder, error)

	CreateItem(ctx context.Context, item *models.PurchaseOrderItem) error
	UpdateItem(ctx context.Context, item *models.PurchaseOrderItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a purchasing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *repository) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", supplierID).Error
}

func (r *repository) FindSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", supplierID).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repository) CreatePO(ctx context.Context, po *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *repository) UpdatePO(ctx context.Context, po *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Omit("Items", "Supplier").Save(po).Error
}

func (r *repository) DeletePO(ctx context.Context, poID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PurchaseOrder{}, "id = ?", poID).Error
}

func (r *repository) FindPO(ctx context.Context, poID uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Supplier").
		First(&po, "id = ?", poID).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *repository) ListPOs(ctx context.Context, status *enums.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Preload("Supplier")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var pos []models.PurchaseOrder
	if err := query.Order("created_at DESC").Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.PurchaseOrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, item *models.PurchaseOrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PurchaseOrderItem{}, "id = ?", itemID).Error
}
