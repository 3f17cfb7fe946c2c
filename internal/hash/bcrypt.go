// Package hash provides one-way password hashing backed by bcrypt.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/identops/identity-server/internal/model"
)

// Bcrypt hashes and verifies passwords. Each hash carries its own random
// salt, so hashing the same password twice yields different values.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the default bcrypt cost.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

// Hash transforms a plaintext password into a salted one-way hash.
func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. A well-formed
// but non-matching hash returns false, never an error.
func (b *Bcrypt) Verify(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
