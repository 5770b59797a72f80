package jwt

import (
	"errors"
	"sync"
	"time"

	"book-locker/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrClosed       = errors.New("jwt service closed")
	ErrEmptySecret  = errors.New("jwt secret cannot be empty")
)

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Service owns the signing key for the lifetime of the process.
// Close wipes the key; every later call fails with ErrClosed.
type Service struct {
	mu            sync.RWMutex
	secretKey     []byte
	tokenDuration time.Duration
}

func NewService(secretKey string, tokenDuration time.Duration) (*Service, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}, nil
}

func (s *Service) GenerateToken(userID uuid.UUID, role user.Role) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.secretKey == nil {
		return "", ErrClosed
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.secretKey == nil {
		return nil, ErrClosed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.secretKey {
		s.secretKey[i] = 0
	}
	s.secretKey = nil
}
