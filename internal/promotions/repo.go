package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
)

// Repository manages persistence for promotions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, promo *models.Promotion) error
	Update(ctx context.Context, promo *models.Promotion) error
	Delete(ctx context.Context, promoID uuid.UUID) error
	FindByID(ctx context.Context, promoID uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	FirstActiveAt(ctx context.Context, at time.Time) (*models.Promotion, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a promotions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, promo *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *repository) Update(ctx context.Context, promo *models.Promotion) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

func (r *repository) Delete(ctx context.Context, promoID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Promotion{}, "id = ?", promoID).Error
}

func (r *repository) FindByID(ctx context.Context, promoID uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", promoID).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *repository) List(ctx context.Context) ([]models.Promotion, error) {
	var promos []models.Promotion
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// FirstActiveAt returns the earliest-created promotion whose window covers
// the given instant, or nil when none applies.
func (r *repository) FirstActiveAt(ctx context.Context, at time.Time) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, at, at).
		Order("created_at ASC").
		First(&promo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}
