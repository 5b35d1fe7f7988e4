// Copyright (c) 2026 Ticketflow. All rights reserved.

package guard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ticketflow/gateway/internal/platform/apperr"
	"github.com/ticketflow/gateway/internal/platform/ctxutil"
	"github.com/ticketflow/gateway/internal/platform/respond"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/session"
)

// Protect wraps a view's handlers with its access requirement.
//
// # Usage
//
// Must be mounted after [session.Loader] so the hydrated state is already in
// the request context:
//
//	r.Group(func(r chi.Router) {
//		r.Use(guard.Protect(guard.Requirement{
//			RequiresAuth: true,
//			AllowedRoles: []sec.Role{sec.RoleManager, sec.RoleAdmin},
//		}))
//		r.Post("/tickets/{id}/assign", h.assign)
//	})
func Protect(requirement Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := session.FromContext(request.Context())
			decision := Decide(current.State, requirement, time.Now())

			if decision.Outcome != OutcomeRender {
				ctxutil.GetLogger(request.Context()).Info("navigation_blocked",
					slog.String("outcome", decision.Outcome.String()),
					slog.String("phase", current.State.Phase().String()),
				)
			}

			switch decision.Outcome {
			case OutcomeRedirectLogin, OutcomeRedirectDefault:
				respond.Redirect(writer, request, decision.Target)

			case OutcomeShowLoading:
				// The profile fetch is still in flight; tell the client to
				// hold this navigation and try again shortly.
				writer.Header().Set("Retry-After", "1")
				respond.JSON(writer, http.StatusAccepted, map[string]string{
					"status": "profile_loading",
				})

			case OutcomeShowUpsell:
				upsell := apperr.PaymentRequired("This feature requires the Premium plan")
				upsell.Details = []apperr.FieldError{
					{Field: "upgrade_url", Message: decision.Target},
				}
				respond.Error(writer, request, upsell)

			default:
				next.ServeHTTP(writer, request)
			}
		})
	}
}

// RequireAuth is shorthand for the most common requirement: any
// authenticated role, no plan gate.
func RequireAuth() func(http.Handler) http.Handler {
	return Protect(Requirement{RequiresAuth: true})
}

// RequireRoles admits only the given role set.
func RequireRoles(roles ...sec.Role) func(http.Handler) http.Handler {
	return Protect(Requirement{RequiresAuth: true, AllowedRoles: roles})
}

// RequirePremium admits any authenticated role on a PREMIUM organization.
func RequirePremium() func(http.Handler) http.Handler {
	return Protect(Requirement{RequiresAuth: true, RequiresPremium: true})
}
