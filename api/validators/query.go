package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter, applying the fallback when
// the parameter is absent and rejecting values outside [min, max].
func ParseQueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be an integer")
	}
	if parsed < min || parsed > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" is out of range").
			WithDetails(map[string]any{"min": min, "max": max})
	}
	return parsed, nil
}
