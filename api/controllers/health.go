package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/contentcreate/storefront-backend/api/responses"
	"github.com/contentcreate/storefront-backend/pkg/db"
	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
	"github.com/contentcreate/storefront-backend/pkg/logger"
	"github.com/contentcreate/storefront-backend/pkg/redis"
)

// Healthz reports process liveness.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Readyz reports whether the API's dependencies answer.
func Readyz(dbPinger db.Pinger, redisPinger redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbPinger != nil {
			if err := dbPinger.Ping(ctx); err != nil {
				checks["database"] = err.Error()
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if redisPinger != nil {
			if err := redisPinger.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency check failed").WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, checks)
	}
}
