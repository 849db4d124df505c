package middleware

import (
	"net/http"
	"time"

	"github.com/dukerupert/numlookup/internal/cookie"
	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/google/uuid"
)

// BrowserSession attaches the browser session ID from the session cookie to
// the request context, issuing a new ID when the cookie is absent or malformed.
// It does not touch the session store: map state belongs to the page ID each
// page load mints, so tabs of one browser never share a map.
func BrowserSession(cookies *cookie.Config, ttl time.Duration) func(http.Handler) http.Handler {
	maxAge := int(ttl.Seconds())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(cookie.Get(r, cookie.SessionCookieName))
			if err != nil || id == uuid.Nil {
				id = uuid.New()
			}
			// Refreshed on every request to follow the store TTL.
			cookies.SetSession(w, cookie.SessionCookieName, id.String(), maxAge)

			ctx := domain.NewContextWithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
