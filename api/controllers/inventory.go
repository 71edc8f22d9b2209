package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contentcreate/storefront-backend/api/responses"
	"github.com/contentcreate/storefront-backend/api/validators"
	inventorysvc "github.com/contentcreate/storefront-backend/internal/inventory"
	"github.com/contentcreate/storefront-backend/pkg/enums"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type stockAdjustmentRequest struct {
	ProductID      string  `json:"product_id" validate:"required,uuid"`
	QuantityChange int     `json:"quantity_change" validate:"required"`
	Reason         string  `json:"reason" validate:"required"`
	Reference      *string `json:"reference,omitempty"`
}

// StockAdjust applies a manual stock movement through the ledger.
func StockAdjust(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload stockAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "product id", payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.Adjust(r.Context(), inventorysvc.AdjustmentInput{
			ProductID:      productID,
			QuantityChange: payload.QuantityChange,
			Reason:         enums.StockReason(payload.Reason),
			Reference:      payload.Reference,
			ActorID:        &userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// StockHistory returns the movement ledger for a product.
func StockHistory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "product id", chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.History(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// LowStock lists products at or under their reorder threshold.
func LowStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
