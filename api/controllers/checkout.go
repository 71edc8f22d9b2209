package controllers

import (
	"net/http"

	"github.com/contentcreate/storefront-backend/api/responses"
	"github.com/contentcreate/storefront-backend/api/validators"
	checkoutsvc "github.com/contentcreate/storefront-backend/internal/checkout"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	ShippingCity    string `json:"shipping_city" validate:"required"`
	ShippingCountry string `json:"shipping_country,omitempty"`
	ShippingPhone   string `json:"shipping_phone" validate:"required"`
}

// Checkout converts the caller's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Checkout(r.Context(), checkoutsvc.Input{
			UserID:          userID,
			ShippingAddress: payload.ShippingAddress,
			ShippingCity:    payload.ShippingCity,
			ShippingCountry: payload.ShippingCountry,
			ShippingPhone:   payload.ShippingPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
