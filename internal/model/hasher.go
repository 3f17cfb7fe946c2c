package model

// Hasher performs one-way password hashing and verification.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
