//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"book-locker/internal/domain/user"
	"book-locker/internal/pkg/config"
	"book-locker/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service, err := jwt.NewService(h.cfg.Secret, h.cfg.Duration)
	require.NoError(t, err)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

// Member returns a fresh member id and a token for it.
func (h *JWTHelper) Member(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, user.RoleMember)
}

func (h *JWTHelper) Admin(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, user.RoleAdmin)
}

func (h *JWTHelper) Device(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, user.RoleDevice)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service, err := jwt.NewService(h.cfg.Secret, time.Millisecond)
	require.NoError(t, err)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
