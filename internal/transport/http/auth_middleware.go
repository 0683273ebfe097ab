package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"rh-platform/internal/domain"
	"rh-platform/internal/httpx"
	obsmw "rh-platform/internal/observability/middleware"
	"rh-platform/internal/service"
)

type userKey struct{}

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the caller resolved by RequireUser.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok && u != nil
}

// RequireUser resolves the bearer access token into a user or answers 401.
func RequireUser(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if len(raw) < len("bearer ") || !strings.EqualFold(raw[:len("bearer ")], "bearer ") {
				w.Header().Set("WWW-Authenticate", "Bearer")
				httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated.")
				return
			}
			tok := strings.TrimSpace(raw[len("bearer "):])

			u, err := auth.Authenticate(r.Context(), tok)
			if err != nil {
				slog.Warn("bearer auth rejected",
					"err", err,
					"request_id", obsmw.RequestIDFromContext(r.Context()),
					"trace_id", obsmw.TraceIDFromContext(r.Context()),
				)
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
		})
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok || !u.IsAdmin() {
			writeServiceError(w, r, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
