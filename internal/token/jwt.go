package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/identops/identity-server/internal/model"
)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenIssuer backed by symmetric HMAC. Standard tokens are
// signed with the service secret. Admin session tokens are signed with the
// plaintext password presented at login, which ties their validity to the
// credential at issuance time; they are not verifiable through Parse.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token issuer with the provided service secret.
func NewJWT(secretKey string) model.TokenIssuer {
	return &JWT{secretKey: secretKey}
}

const (
	adminSessionTTL  = time.Hour
	typeStandard     = "standard"
	typeAdminSession = "admin_session"
)

// IssueStandard creates a long-lived token signed with the service secret.
// No expiry is set: holders stay authenticated until the secret rotates.
func (j *JWT) IssueStandard(userID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		UserID:    userID,
		TokenType: typeStandard,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign standard token: %w", err)
	}

	return tokenString, nil
}

// IssueAdminSession creates a one-hour token keyed by the presented
// plaintext password and returns the token together with its expiry.
func (j *JWT) IssueAdminSession(userID uuid.UUID, password string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(adminSessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		TokenType: typeAdminSession,
	})

	tokenString, err := token.SignedString([]byte(password))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin session token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Parse validates a standard token against the service secret and extracts
// the user ID.
func (j *JWT) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("token is invalid")
	}
	if claims.TokenType != typeStandard {
		return uuid.Nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims.UserID, nil
}

// VerifyAdminSession validates an admin session token against the password
// it was keyed with.
func VerifyAdminSession(tokenString, password string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(password), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse admin session token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("admin session token is invalid")
	}
	if claims.TokenType != typeAdminSession {
		return uuid.Nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims.UserID, nil
}
