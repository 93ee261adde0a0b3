package http

import (
	"fmt"
	"net/http"
	"strconv"
)

// overlapsRequested reads the optional overlaps query flag. An absent flag
// means false.
func overlapsRequested(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("overlaps")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid overlaps flag %q", raw)
	}
	return v, nil
}
