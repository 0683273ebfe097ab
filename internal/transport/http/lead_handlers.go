package http

import (
	"fmt"
	"net/http"
	"strconv"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *handler) createLead(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	var req dto.LeadCreate
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	lead, err := h.svc.Leads.Create(r.Context(), u.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dto.NewLeadPublic(lead))
}

func (h *handler) listMyLeads(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	leads, err := h.svc.Leads.ListMine(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewLeadPublicList(leads))
}

func (h *handler) getMyLead(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	lead, err := h.svc.Leads.GetMine(r.Context(), u.ID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewLeadDetail(lead))
}

func (h *handler) adminListLeads(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	leads, err := h.svc.Leads.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewLeadPublicList(leads))
}

func (h *handler) adminGetLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	lead, err := h.svc.Leads.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewLeadDetail(lead))
}

func (h *handler) adminUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req dto.LeadStatusUpdate
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	lead, err := h.svc.Leads.UpdateStatus(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewLeadDetail(lead))
}

// pathID parses the {id} URL parameter. Malformed ids are reported as not
// found, the same as ids that do not exist.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

func pageFromQuery(r *http.Request) (dto.Page, error) {
	q := r.URL.Query()
	page := dto.Page{Search: q.Get("search")}
	var err error
	if page.Limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		return page, err
	}
	if page.Offset, err = queryInt(q.Get("offset"), "offset"); err != nil {
		return page, err
	}
	if q.Has("limit") && page.Limit == 0 {
		return page, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, dto.MaxPageLimit)
	}
	return page, nil
}

func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return n, nil
}
