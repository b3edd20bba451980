package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int, clock clockwork.Clock) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 480
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, clock: clock}
}

// Claims describes JWT payload. The registered subject carries the admin id.
type Claims struct {
	Email      string `json:"email"`
	SuperAdmin bool   `json:"super_admin"`
	jwt.RegisteredClaims
}

// AdminID parses the subject claim.
func (c *Claims) AdminID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// GenerateToken builds and signs a JWT for the admin.
func (tm *TokenManager) GenerateToken(admin *domain.AdminUser) (string, time.Time, error) {
	now := tm.clock.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Email:      admin.Email,
		SuperAdmin: admin.IsSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(admin.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if _, err := claims.AdminID(); err != nil {
		return nil, errors.New("invalid subject")
	}
	return claims, nil
}
