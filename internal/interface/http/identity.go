package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// userIDHeader lets API clients pin their identity explicitly.
	userIDHeader = "X-User-ID"

	// userIDCookie carries the anonymous identity between browser visits.
	userIDCookie = "cpa_uid"

	// cookieMaxAge keeps anonymous identities for a year.
	cookieMaxAge = 365 * 24 * 60 * 60
)

// resolveUserID determines the caller's identity. The header wins over
// the cookie; when neither carries a usable value a fresh anonymous id
// is minted and set as a cookie so the next request keeps the identity.
func resolveUserID(w http.ResponseWriter, r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(userIDHeader)); id != "" {
		return id
	}

	if c, err := r.Cookie(userIDCookie); err == nil {
		if id := strings.TrimSpace(c.Value); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     userIDCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
