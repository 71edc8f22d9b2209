package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/contentcreate/storefront-backend/api/responses"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
)

// PermissionResolver is the slice of the rbac service the gate needs.
type PermissionResolver interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequirePermission admits admins and users holding the named permission.
func RequirePermission(resolver PermissionResolver, permission string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := contextUserID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			admin, err := resolver.IsAdmin(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !admin {
				granted, err := resolver.HasPermission(r.Context(), userID, permission)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				if !granted {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "permission required"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits only admins, legacy or assigned.
func RequireAdmin(resolver PermissionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := contextUserID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			admin, err := resolver.IsAdmin(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !admin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextUserID(r *http.Request) (uuid.UUID, error) {
	raw := UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return userID, nil
}
