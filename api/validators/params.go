package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// URLParamID parses a positive integer route parameter. Anything else is
// reported as not found, matching how an unknown id behaves.
func URLParamID(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found").WithDetails(map[string]any{"param": key})
	}
	return uint(value), nil
}
