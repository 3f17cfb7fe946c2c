package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenIssuer mints and validates bearer tokens. Two issuance strategies
// exist on purpose: standard tokens are signed with the service secret and
// never expire, admin session tokens are signed with the plaintext password
// presented at login and expire after one hour.
type TokenIssuer interface {
	IssueStandard(userID uuid.UUID) (string, error)
	IssueAdminSession(userID uuid.UUID, password string) (token string, expiresAt time.Time, err error)
	Parse(token string) (uuid.UUID, error)
}
