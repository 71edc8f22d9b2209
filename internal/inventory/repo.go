package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
)

// Repository manages persistence for product stock and the inventory log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductForUpdate(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SaveStock(ctx context.Context, productID uuid.UUID, stock int) error
	CreateLog(ctx context.Context, log *models.InventoryLog) error
	ListLogsByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryLog, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindProductForUpdate loads the product row under a write lock so
// concurrent stock mutations serialize on the row.
func (r *repository) FindProductForUpdate(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := query.First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) SaveStock(ctx context.Context, productID uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", stock).Error
}

func (r *repository) CreateLog(ctx context.Context, log *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListLogsByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryLog, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []models.InventoryLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("stock <= low_stock_threshold").
		Order("stock ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
