package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/baharkarakas/case-market/internal/api/httpx"
	"github.com/baharkarakas/case-market/internal/api/validate"
)

// HeaderUserID carries the caller's asserted identity when the body omits it.
const HeaderUserID = "X-User-Id"

// callerID prefers the id given in the body and falls back to the header.
func callerID(r *http.Request, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}

// decode reads and validates a request body. On failure the response has
// been written and ok is false.
func decode(w http.ResponseWriter, r *http.Request, dst any, fill func()) (ok bool) {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.WriteServiceError(w, r, err)
		return false
	}
	if fill != nil {
		fill()
	}
	if err := validate.Struct(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request", err)
		return false
	}
	return true
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
