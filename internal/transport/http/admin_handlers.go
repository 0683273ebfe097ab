package http

import (
	"net/http"

	"rh-platform/internal/dto"
	"rh-platform/internal/httpx"
)

func (h *handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	users, err := h.svc.Admin.ListUsers(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserPublicList(users))
}

func (h *handler) adminGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	u, err := h.svc.Admin.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserPublic(u))
}
