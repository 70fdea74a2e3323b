package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// span is the number of distinct 6-digit codes: [100000, 999999].
var span = big.NewInt(900000)

// New generates a 6-digit numeric recovery code drawn uniformly from
// [100000, 999999] using crypto/rand.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
