package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrMalformedToken = errors.New("malformed token")
)

// TokenClaims represents the claims embedded in an access token
type TokenClaims struct {
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// JWTService issues and verifies HMAC-signed JWTs.
// Tokens are stateless: validity is signature plus expiry, nothing else.
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
}

// NewJWTService creates a token service for the given secret and
// algorithm identifier. Only the HMAC family is supported.
func NewJWTService(secret []byte, algorithm string) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}

	method := jwt.GetSigningMethod(algorithm)
	switch method {
	case jwt.SigningMethodHS256, jwt.SigningMethodHS384, jwt.SigningMethodHS512:
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &JWTService{
		secret: secret,
		method: method,
	}, nil
}

// CreateToken generates a signed token embedding the subject and an
// absolute expiry of now plus ttl.
func (s *JWTService) CreateToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates a token's signature and expiry and returns the claims.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := new(jwt.RegisteredClaims)

	token, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, ErrInvalidToken
		}
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	result := &TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	return result, nil
}
