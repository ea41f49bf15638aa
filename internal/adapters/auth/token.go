package auth

import (
	"fmt"
	"strconv"
	"time"

	"eventbooking/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTSessions issues and verifies HS256 session tokens. Each token gets a random
// id so a single session can be revoked at logout.
type JWTSessions struct {
	secret []byte
	now    func() time.Time
}

func NewJWTSessions(secret string) *JWTSessions {
	return &JWTSessions{secret: []byte(secret), now: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWTSessions)(nil)
	_ domain.TokenVerifier = (*JWTSessions)(nil)
)

func (s *JWTSessions) Issue(userID int64, email string, expiry time.Duration) (string, *domain.SessionClaims, error) {
	now := s.now()
	sc := &domain.SessionClaims{
		UserID:    userID,
		Email:     email,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(expiry).Truncate(time.Second),
	}
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sc.TokenID,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sc.ExpiresAt),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, sc, nil
}

// Verify returns domain.ErrUnauthorized for malformed, expired or foreign tokens.
func (s *JWTSessions) Verify(tokenString string) (*domain.SessionClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing token id", domain.ErrUnauthorized)
	}
	return &domain.SessionClaims{
		UserID:    userID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
