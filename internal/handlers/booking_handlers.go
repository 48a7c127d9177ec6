package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	var req domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	result, err := h.bookingService.Create(r.Context(), claims.Sub, &req, idempotencyKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logger.InfoContext(r.Context(), "Booking created", "booking_id", result.Booking.ID)
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	limit, offset := parsePagination(r)
	status := parseStatusFilter(r)

	bookings, err := h.bookingService.ListForCustomer(r.Context(), claims.Sub, limit, offset, status)
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

func (h *Handlers) GetMyBooking(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingService.Get(r.Context(), id, actorFromClaims(claims))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// CancelMyBooking lets a customer cancel their own pending or confirmed
// booking. Everything flows through the lifecycle transition; the handler
// never touches status values itself.
func (h *Handlers) CancelMyBooking(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	newStatus, err := h.bookingService.Transition(r.Context(), id, domain.BookingCancelled, actorFromClaims(claims))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logger.InfoContext(r.Context(), "Booking cancelled by customer", "booking_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(newStatus)})
}
