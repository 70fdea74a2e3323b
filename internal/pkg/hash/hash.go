package hash

import "golang.org/x/crypto/bcrypt"

// Hasher produces one-way hashes for secrets (account passwords and
// recovery codes) and verifies plaintexts against them. Verify must be
// constant-time with respect to the plaintext.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcrypt returns a bcrypt-backed Hasher. Pass bcrypt.DefaultCost in
// production; tests use bcrypt.MinCost.
func NewBcrypt(cost int) Hasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *bcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
