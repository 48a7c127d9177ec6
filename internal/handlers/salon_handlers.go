package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListSalons(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	salons, err := h.salonService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list salons")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"salons": salons,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handlers) GetSalon(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid salon id")
		return
	}

	salon, err := h.salonService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, salon)
}

func (h *Handlers) ListSalonServices(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid salon id")
		return
	}

	services, err := h.salonService.ListServices(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"services": services})
}
