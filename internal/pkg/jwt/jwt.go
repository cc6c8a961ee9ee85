package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTypeAccess is the only token type accepted by the attendance API.
const TokenTypeAccess = "access"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidTTL   = errors.New("token ttl must be positive")
)

// Service verifies the HS256 tokens issued by the institute's identity service.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(userID string, role string, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken signs a token with the same claims the identity service uses.
// Operators use it for scripted calls to the insert endpoint.
func (j *JWTService) GenerateAccessToken(userID string, role string, ttl time.Duration) (string, int64, error) {
	if ttl <= 0 {
		return "", 0, ErrInvalidTTL
	}
	expiresAt := time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}
