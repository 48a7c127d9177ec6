package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/internal/repository"
	"github.com/glowdesk/salon-bookings/internal/service"
	"github.com/glowdesk/salon-bookings/pkg/auth"
	"github.com/glowdesk/salon-bookings/pkg/config"
	"github.com/glowdesk/salon-bookings/pkg/logger"
)

type claimsKeyType struct{}

var claimsKey claimsKeyType

type Handlers struct {
	authService    service.AuthService
	bookingService service.BookingService
	salonService   service.SalonService
	rateLimit      repository.RateLimitRepository
	config         *config.Config
}

func New(
	authService service.AuthService,
	bookingService service.BookingService,
	salonService service.SalonService,
	rateLimit repository.RateLimitRepository,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:    authService,
		bookingService: bookingService,
		salonService:   salonService,
		rateLimit:      rateLimit,
		config:         config,
	}
}

// RequireJWT authenticates the request and, when requiredRole is non-empty,
// enforces it. Admins pass any role gate.
func (h *Handlers) RequireJWT(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if claims.Role == "refresh" {
				writeError(w, http.StatusUnauthorized, "Invalid token type")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole && claims.Role != domain.RoleAdmin {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit caps requests per client IP on abuse-prone routes. Fails open if
// the limiter backend is down.
func (h *Handlers) RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			allowed, err := h.rateLimit.Allow(r.Context(), key, requests, window)
			if err == nil && !allowed {
				writeError(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func actorFromClaims(claims *auth.Claims) domain.Actor {
	return domain.Actor{ID: claims.Sub, Role: claims.Role}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps service and lifecycle errors onto HTTP statuses:
// 403 for a disallowed actor, 409 for a state-graph violation or conflict,
// 404/401 for their sentinels, 400 for anything else the service rejected.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Booking is not in a state that allows this change")
	case errors.Is(err, service.ErrSlotTaken), errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

func parseStatusFilter(r *http.Request) *domain.BookingStatus {
	if v := r.URL.Query().Get("status"); v != "" {
		if status, ok := domain.ParseBookingStatus(v); ok {
			return &status
		}
	}
	return nil
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}
