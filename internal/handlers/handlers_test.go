package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/internal/service"
	"github.com/glowdesk/salon-bookings/pkg/auth"
	"github.com/glowdesk/salon-bookings/pkg/config"
)

const testSecret = "test-secret"

type stubBookingService struct {
	service.BookingService

	transitionErr    error
	transitionResult domain.BookingStatus
	lastActor        domain.Actor

	depositErr       error
	depositBookingID int64
	depositIntentID  string
}

func (s *stubBookingService) Transition(ctx context.Context, bookingID int64, requested domain.BookingStatus, actor domain.Actor) (domain.BookingStatus, error) {
	s.lastActor = actor
	if s.transitionErr != nil {
		return "", s.transitionErr
	}
	return s.transitionResult, nil
}

func (s *stubBookingService) MarkDepositPaid(ctx context.Context, bookingID int64, intentID string) error {
	s.depositBookingID = bookingID
	s.depositIntentID = intentID
	return s.depositErr
}

func newTestRouter(bookings *stubBookingService) http.Handler {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret
	cfg.Stripe.WebhookSecret = testWebhookSecret

	h := New(nil, bookings, nil, nil, cfg)

	r := chi.NewRouter()
	r.Post("/webhooks/stripe", h.StripeWebhook)
	r.Route("/owner/bookings", func(r chi.Router) {
		r.Use(h.RequireJWT("owner"))
		r.Post("/{id}/confirm", h.ConfirmBooking)
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Use(h.RequireJWT("customer"))
		r.Post("/{id}/cancel", h.CancelMyBooking)
	})
	return r
}

func mintToken(t *testing.T, sub int64, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(sub, "user@example.com", role, "", testSecret, time.Minute)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOwnerConfirmSuccess(t *testing.T) {
	bookings := &stubBookingService{transitionResult: domain.BookingConfirmed}
	router := newTestRouter(bookings)

	rec := doRequest(t, router, http.MethodPost, "/owner/bookings/42/confirm", mintToken(t, 100, domain.RoleOwner))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"confirmed"}`, rec.Body.String())
	assert.Equal(t, domain.Actor{ID: 100, Role: domain.RoleOwner}, bookings.lastActor)
}

func TestTransitionErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unauthorized actor", domain.ErrUnauthorized, http.StatusForbidden},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"missing booking", service.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubBookingService{transitionErr: tt.err})

			rec := doRequest(t, router, http.MethodPost, "/owner/bookings/42/confirm", mintToken(t, 100, domain.RoleOwner))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestOwnerRouteRejectsMissingToken(t *testing.T) {
	router := newTestRouter(&stubBookingService{})

	rec := doRequest(t, router, http.MethodPost, "/owner/bookings/42/confirm", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnerRouteRejectsCustomerToken(t *testing.T) {
	router := newTestRouter(&stubBookingService{})

	rec := doRequest(t, router, http.MethodPost, "/owner/bookings/42/confirm", mintToken(t, 7, domain.RoleCustomer))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOwnerRouteRejectsRefreshToken(t *testing.T) {
	router := newTestRouter(&stubBookingService{})

	rec := doRequest(t, router, http.MethodPost, "/owner/bookings/42/confirm", mintToken(t, 100, "refresh"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminPassesOwnerGate(t *testing.T) {
	bookings := &stubBookingService{transitionResult: domain.BookingConfirmed}
	router := newTestRouter(bookings)

	rec := doRequest(t, router, http.MethodPost, "/owner/bookings/42/confirm", mintToken(t, 1, domain.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerCancelRoute(t *testing.T) {
	bookings := &stubBookingService{transitionResult: domain.BookingCancelled}
	router := newTestRouter(bookings)

	rec := doRequest(t, router, http.MethodPost, "/bookings/42/cancel", mintToken(t, 7, domain.RoleCustomer))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"cancelled"}`, rec.Body.String())
	assert.Equal(t, domain.Actor{ID: 7, Role: domain.RoleCustomer}, bookings.lastActor)
}

func TestInvalidBookingID(t *testing.T) {
	router := newTestRouter(&stubBookingService{})

	rec := doRequest(t, router, http.MethodPost, "/owner/bookings/nope/confirm", mintToken(t, 100, domain.RoleOwner))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
