package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/glowdesk/salon-bookings/pkg/logger"
)

const maxWebhookBody = 64 * 1024

// StripeWebhook receives payment events from Stripe. Only
// payment_intent.succeeded is acted on: it flips the booking's payment
// status to deposit_paid, which is what later makes a cancellation refund
// the deposit. Stripe retries non-2xx deliveries, so failures here are safe
// to surface as errors.
func (h *Handlers) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	secret := h.config.Stripe.WebhookSecret
	if secret == "" {
		writeError(w, http.StatusServiceUnavailable, "Webhook not configured")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	if string(event.Type) != "payment_intent.succeeded" {
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed event payload")
		return
	}

	bookingID, ok := parseID(intent.Metadata["booking_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing booking_id metadata")
		return
	}

	if err := h.bookingService.MarkDepositPaid(r.Context(), bookingID, intent.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	logger.InfoContext(r.Context(), "Deposit payment recorded", "booking_id", bookingID)
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
