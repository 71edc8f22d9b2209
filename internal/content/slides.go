package content

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db"
	"github.com/contentcreate/storefront-backend/pkg/db/models"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

// SlideInput carries the writable slide fields.
type SlideInput struct {
	Title        string  `json:"title" validate:"required"`
	Subtitle     *string `json:"subtitle,omitempty"`
	ImageURL     string  `json:"image_url" validate:"required,url"`
	LinkURL      *string `json:"link_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// Service manages the homepage slideshow.
type Service interface {
	Create(ctx context.Context, input SlideInput) (*models.Slide, error)
	Update(ctx context.Context, slideID uuid.UUID, input SlideInput) (*models.Slide, error)
	Delete(ctx context.Context, slideID uuid.UUID) error
	Active(ctx context.Context) ([]models.Slide, error)
	List(ctx context.Context) ([]models.Slide, error)
}

type service struct {
	db *gorm.DB
}

// NewService wires the slideshow service. The CRUD surface is thin enough
// that it talks to gorm directly.
func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database handle is required")
	}
	return &service{db: conn}, nil
}

func (s *service) Create(ctx context.Context, input SlideInput) (*models.Slide, error) {
	if err := validateSlide(input); err != nil {
		return nil, err
	}
	slide := &models.Slide{
		Title:        strings.TrimSpace(input.Title),
		Subtitle:     input.Subtitle,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		LinkURL:      input.LinkURL,
		DisplayOrder: input.DisplayOrder,
		IsActive:     true,
	}
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}
	if err := s.db.WithContext(ctx).Create(slide).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create slide")
	}
	return slide, nil
}

func (s *service) Update(ctx context.Context, slideID uuid.UUID, input SlideInput) (*models.Slide, error) {
	if err := validateSlide(input); err != nil {
		return nil, err
	}
	var slide models.Slide
	if err := s.db.WithContext(ctx).First(&slide, "id = ?", slideID).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "slide not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load slide")
	}
	slide.Title = strings.TrimSpace(input.Title)
	slide.Subtitle = input.Subtitle
	slide.ImageURL = strings.TrimSpace(input.ImageURL)
	slide.LinkURL = input.LinkURL
	slide.DisplayOrder = input.DisplayOrder
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}
	if err := s.db.WithContext(ctx).Save(&slide).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save slide")
	}
	return &slide, nil
}

func (s *service) Delete(ctx context.Context, slideID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Slide{}, "id = ?", slideID)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "delete slide")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "slide not found")
	}
	return nil
}

func (s *service) Active(ctx context.Context) ([]models.Slide, error) {
	var out []models.Slide
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active slides")
	}
	return out, nil
}

func (s *service) List(ctx context.Context) ([]models.Slide, error) {
	var out []models.Slide
	err := s.db.WithContext(ctx).
		Order("display_order ASC, created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list slides")
	}
	return out, nil
}

func validateSlide(input SlideInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	return nil
}
