package promotions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Service manages storewide promotions and applies the active discount.
type Service interface {
	Create(ctx context.Context, input UpsertInput) (*models.Promotion, error)
	Update(ctx context.Context, promoID uuid.UUID, input UpsertInput) (*models.Promotion, error)
	Delete(ctx context.Context, promoID uuid.UUID) error
	List(ctx context.Context) ([]models.Promotion, error)
	Active(ctx context.Context, now time.Time) (*models.Promotion, error)
	ApplyDiscount(ctx context.Context, now time.Time, amount decimal.Decimal) (decimal.Decimal, *models.Promotion, error)
}

type service struct {
	repo Repository
}

// UpsertInput carries the writable promotion fields.
type UpsertInput struct {
	Title           string
	Description     string
	DiscountPercent decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	IsActive        bool
}

// NewService wires a promotions service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	return &service{repo: repo}, nil
}

func (i UpsertInput) validate() error {
	if i.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if i.DiscountPercent.LessThanOrEqual(decimal.Zero) || i.DiscountPercent.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	if i.EndDate.Before(i.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Promotion, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	promo := &models.Promotion{
		Title:           input.Title,
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		IsActive:        input.IsActive,
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *service) Update(ctx context.Context, promoID uuid.UUID, input UpsertInput) (*models.Promotion, error) {
	if promoID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	promo, err := s.repo.FindByID(ctx, promoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, err
	}

	promo.Title = input.Title
	promo.Description = input.Description
	promo.DiscountPercent = input.DiscountPercent
	promo.StartDate = input.StartDate
	promo.EndDate = input.EndDate
	promo.IsActive = input.IsActive

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *service) Delete(ctx context.Context, promoID uuid.UUID) error {
	if promoID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion id is required")
	}
	if _, err := s.repo.FindByID(ctx, promoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return err
	}
	return s.repo.Delete(ctx, promoID)
}

func (s *service) List(ctx context.Context) ([]models.Promotion, error) {
	return s.repo.List(ctx)
}

func (s *service) Active(ctx context.Context, now time.Time) (*models.Promotion, error) {
	return s.repo.FirstActiveAt(ctx, now)
}

// ApplyDiscount returns the amount after the active promotion, if any. The
// result is rounded to two decimal places; the promotion applies at most
// once to any given amount.
func (s *service) ApplyDiscount(ctx context.Context, now time.Time, amount decimal.Decimal) (decimal.Decimal, *models.Promotion, error) {
	if amount.IsNegative() {
		return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	promo, err := s.repo.FirstActiveAt(ctx, now)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if promo == nil {
		return amount, nil, nil
	}

	factor := hundred.Sub(promo.DiscountPercent).Div(hundred)
	return amount.Mul(factor).Round(2), promo, nil
}
