package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testWebhookSecret = "whsec_test"

// stripeSignature builds a Stripe-Signature header the way Stripe signs
// deliveries: HMAC-SHA256 over "<timestamp>.<payload>".
func stripeSignature(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(router http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStripeWebhookMarksDepositPaid(t *testing.T) {
	bookings := &stubBookingService{}
	router := newTestRouter(bookings)

	payload := []byte(`{
		"id": "evt_1",
		"api_version": "2023-10-16",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "metadata": {"booking_id": "42"}}}
	}`)

	rec := postWebhook(router, payload, stripeSignature(testWebhookSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), bookings.depositBookingID)
	assert.Equal(t, "pi_123", bookings.depositIntentID)
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	bookings := &stubBookingService{}
	router := newTestRouter(bookings)

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)

	rec := postWebhook(router, payload, stripeSignature("whsec_wrong", payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, bookings.depositBookingID)
}

func TestStripeWebhookIgnoresOtherEvents(t *testing.T) {
	bookings := &stubBookingService{}
	router := newTestRouter(bookings)

	payload := []byte(`{"id":"evt_1","api_version":"2023-10-16","type":"payment_intent.created","data":{"object":{"id":"pi_123"}}}`)

	rec := postWebhook(router, payload, stripeSignature(testWebhookSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, bookings.depositBookingID)
}

func TestStripeWebhookRequiresBookingMetadata(t *testing.T) {
	bookings := &stubBookingService{}
	router := newTestRouter(bookings)

	payload := []byte(`{"id":"evt_1","api_version":"2023-10-16","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","metadata":{}}}}`)

	rec := postWebhook(router, payload, stripeSignature(testWebhookSecret, payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, bookings.depositBookingID)
}
