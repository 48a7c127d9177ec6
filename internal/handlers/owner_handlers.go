package handlers

import (
	"net/http"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListSalonBookings(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	limit, offset := parsePagination(r)
	status := parseStatusFilter(r)

	bookings, err := h.bookingService.ListForOwner(r.Context(), claims.Sub, limit, offset, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, domain.BookingConfirmed)
}

func (h *Handlers) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, domain.BookingCompleted)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.ownerTransition(w, r, domain.BookingCancelled)
}

func (h *Handlers) ownerTransition(w http.ResponseWriter, r *http.Request, requested domain.BookingStatus) {
	claims := getClaims(r)
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	newStatus, err := h.bookingService.Transition(r.Context(), id, requested, actorFromClaims(claims))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logger.InfoContext(r.Context(), "Booking status changed",
		"booking_id", id,
		"new_status", string(newStatus),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(newStatus)})
}
