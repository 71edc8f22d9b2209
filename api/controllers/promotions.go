package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/contentcreate/storefront-backend/api/responses"
	"github.com/contentcreate/storefront-backend/api/validators"
	promosvc "github.com/contentcreate/storefront-backend/internal/promotions"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type promotionRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description,omitempty"`
	DiscountPercent string    `json:"discount_percent" validate:"required"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
	IsActive        bool      `json:"is_active"`
}

func (p promotionRequest) toInput() (promosvc.UpsertInput, error) {
	pct, err := decimal.NewFromString(p.DiscountPercent)
	if err != nil {
		return promosvc.UpsertInput{}, pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be a decimal string")
	}
	return promosvc.UpsertInput{
		Title:           p.Title,
		Description:     p.Description,
		DiscountPercent: pct,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		IsActive:        p.IsActive,
	}, nil
}

// ActivePromotion returns the storefront banner promotion, if any.
func ActivePromotion(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promo, err := svc.Active(r.Context(), time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

// PromotionList returns every promotion for the admin panel.
func PromotionList(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promos)
	}
}

// PromotionCreate adds a discount window.
func PromotionCreate(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload promotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promo, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

// PromotionUpdate edits a discount window.
func PromotionUpdate(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promoID, err := pathUUID(r, "promotion id", chi.URLParam(r, "promotionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload promotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promo, err := svc.Update(r.Context(), promoID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promo)
	}
}

// PromotionDelete removes a discount window.
func PromotionDelete(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promoID, err := pathUUID(r, "promotion id", chi.URLParam(r, "promotionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), promoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
