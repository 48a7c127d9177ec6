package service

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/scrypt"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/internal/password"
	"github.com/glowdesk/salon-bookings/internal/repository"
	"github.com/glowdesk/salon-bookings/pkg/config"
)

type mockUserRepo struct {
	repository.UserRepository

	byEmail map[string]*domain.User
	created *domain.User
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.byEmail[email], nil
}

func (m *mockUserRepo) Create(ctx context.Context, req *domain.CreateUserRequest, role, passwordHash string) (*domain.User, error) {
	m.created = &domain.User{
		ID:           1,
		Role:         role,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
	}
	return m.created, nil
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = time.Hour
	return cfg
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{byEmail: map[string]*domain.User{
		"ada@example.com": {ID: 1, Email: "ada@example.com"},
	}}
	svc := NewAuthService(repo, testAuthConfig())

	_, err := svc.Register(context.Background(), &domain.CreateUserRequest{
		Email:    "Ada@Example.com",
		Password: "longenough",
		Name:     "Ada",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterHashesWithBcrypt(t *testing.T) {
	repo := &mockUserRepo{byEmail: map[string]*domain.User{}}
	svc := NewAuthService(repo, testAuthConfig())

	user, err := svc.Register(context.Background(), &domain.CreateUserRequest{
		Email:    "ada@example.com",
		Password: "longenough",
		Name:     "Ada",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Contains(t, []string{"$2a$", "$2b$", "$2y$"}, repo.created.PasswordHash[:4])
	assert.True(t, password.Verify("longenough", repo.created.PasswordHash))
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)

	repo := &mockUserRepo{byEmail: map[string]*domain.User{
		"ada@example.com": {ID: 1, Email: "ada@example.com", Role: domain.RoleCustomer, PasswordHash: hash},
	}}
	svc := NewAuthService(repo, testAuthConfig())

	_, err = svc.Login(context.Background(), &domain.LoginRequest{Email: "ada@example.com", Password: "battery-staple"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{byEmail: map[string]*domain.User{}}, testAuthConfig())

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// Accounts migrated from the old system keep their scrypt hashes and must be
// able to log in without a reset.
func TestLoginLegacyScryptHash(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key, err := scrypt.Key([]byte("legacy-password"), salt, 16384, 8, 1, 64)
	require.NoError(t, err)
	stored := hex.EncodeToString(key) + "." + hex.EncodeToString(salt)

	repo := &mockUserRepo{byEmail: map[string]*domain.User{
		"old@example.com": {ID: 2, Email: "old@example.com", Role: domain.RoleCustomer, PasswordHash: stored},
	}}
	svc := NewAuthService(repo, testAuthConfig())

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "old@example.com", Password: "legacy-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}
