package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/models"
)

// Identity is the resolved subject of a verified token.
type Identity struct {
	ID    string
	Email string
	Role  models.Role
}

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens. The signing key is
// fixed at construction; rotating it invalidates every outstanding token,
// which is the only revocation mechanism this design has.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue creates a new JWT for the given user. Tokens carry no expiry claim:
// they stay valid until the signing secret changes.
func (t *TokenService) Issue(user models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string, returning the embedded identity.
func (t *TokenService) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return Identity{}, fmt.Errorf("%w: unknown role in token", apperr.ErrUnauthorized)
	}

	return Identity{ID: claims.UserID, Email: claims.Email, Role: role}, nil
}
