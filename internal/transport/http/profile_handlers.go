package http

import (
	"net/http"

	"rh-platform/internal/dto"
	"rh-platform/internal/httpx"
)

func (h *handler) updateOnboarding(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var req dto.OnboardingUpdate
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	updated, err := h.svc.Profile.UpdateOnboarding(r.Context(), u.ID, req.OnboardingCompleted)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserPublic(updated))
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var req dto.ProfileUpdate
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	updated, err := h.svc.Profile.UpdateProfile(r.Context(), u.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserPublic(updated))
}
