package http

import (
	"errors"
	"net/http"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/httpx"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Login(r.Context(), req, h.clientIP(r), httpx.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Auth.AdminLogin(r.Context(), req, h.clientIP(r), httpx.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserPublic(u))
}

func (h *handler) requestSignupOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupOTPRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Auth.RequestSignupOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "OTP sent to email."})
}

func (h *handler) verifySignupOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupOTPVerify
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	tok, err := h.svc.Auth.VerifySignup(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.SignupTokenResponse{SignupToken: tok})
}

func (h *handler) resendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendOTPRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Auth.ResendSignupOTP(r.Context(), req.Email, req.Purpose); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "OTP resent."})
}

func (h *handler) completeSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupComplete
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Auth.CompleteSignup(r.Context(), req)
	if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrTokenWrongType) {
		// the signup token is a request field, not the caller's credentials
		httpx.WriteError(w, http.StatusBadRequest, "Signup token invalid or expired.")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handler) clientIP(r *http.Request) string {
	return httpx.ClientIP(r, h.opts.TrustProxy)
}
