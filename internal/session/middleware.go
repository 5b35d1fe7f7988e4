// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ticketflow/gateway/internal/platform/constants"
)

// CookieSettings controls how the session cookie is issued.
type CookieSettings struct {
	// Secure marks the cookie HTTPS-only. Off only for local development.
	Secure bool
}

// Loader identifies the browser session and hydrates its state into the
// request context.
//
// A first-time visitor gets a fresh opaque session ID cookie; the ID carries
// no claims or identity itself, it only keys the persisted record. Hydration
// runs before the access guard so every navigation decision reads a
// fully-settled state.
func Loader(store *Store, settings CookieSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sid := sessionID(request)
			if sid == "" {
				sid = newSessionID()
				http.SetCookie(writer, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    sid,
					Path:     constants.SessionCookiePath,
					MaxAge:   int(constants.SessionTTL.Seconds()),
					Secure:   settings.Secure,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			state := store.Hydrate(request.Context(), sid)
			ctx := WithCurrent(request.Context(), Current{ID: sid, State: state})

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// sessionID extracts the session cookie value, or "" when absent.
func sessionID(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// newSessionID mints a fresh opaque identifier. UUIDv7 keeps Redis key scans
// time-ordered during debugging; the value grants nothing by itself.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
