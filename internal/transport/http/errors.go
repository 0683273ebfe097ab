package http

import (
	"errors"
	"log/slog"
	"net/http"

	"rh-platform/internal/domain"
	"rh-platform/internal/httpx"
	"rh-platform/internal/observability/middleware"
)

const detailUnauthorized = "Could not validate credentials."

// errorStatus maps domain sentinels onto a status and client-facing detail.
// Validation errors carry their own field detail.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, httpx.ErrBadJSON):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid or expired code."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password."
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenWrongType):
		return http.StatusUnauthorized, detailUnauthorized
	case errors.Is(err, domain.ErrEmailNotVerified):
		return http.StatusForbidden, "Email not verified. Please complete signup."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Admin privileges required."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, "Account already exists. Please log in."
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, "Username already taken."
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Please wait before requesting another code."
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("unhandled error",
			"err", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"trace_id", middleware.TraceIDFromContext(r.Context()),
		)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	httpx.WriteError(w, status, detail)
}
