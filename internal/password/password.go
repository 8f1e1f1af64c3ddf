package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch means the plaintext does not match the stored hash.
	ErrMismatch = errors.New("password does not match")
	// ErrCorruptHash means the stored hash is not a valid bcrypt string.
	// Callers must treat this as a server-side fault, not a bad password.
	ErrCorruptHash = errors.New("stored password hash is corrupt")
)

// Hasher wraps bcrypt with a configurable work factor. bcrypt bakes a random
// salt into every hash, so hashing the same plaintext twice yields different
// strings, and comparison is constant-time.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *Hasher) Verify(plaintext string, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("%w: %v", ErrCorruptHash, err)
}
