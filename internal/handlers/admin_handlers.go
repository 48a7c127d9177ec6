package handlers

import (
	"net/http"
)

func (h *Handlers) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	bookings, err := h.bookingService.ListAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	users, err := h.authService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	infos := make([]interface{}, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].ToUserInfo())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":  infos,
		"limit":  limit,
		"offset": offset,
	})
}
