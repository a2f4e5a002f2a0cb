// Package keygen produces the short keys used as public URL identifiers.
package keygen

import (
	"crypto/rand"
	"math/big"
)

const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultKeyLength is the number of characters in a generated short key.
const DefaultKeyLength = 6

// Generator produces fixed-length alphanumeric keys. It gives no uniqueness
// guarantee; the storage insert overwrites on collision.
type Generator struct {
	keyLength int
}

// New returns a Generator producing keys of the given length.
// Non-positive lengths fall back to DefaultKeyLength.
func New(keyLength int) *Generator {
	if keyLength <= 0 {
		keyLength = DefaultKeyLength
	}

	return &Generator{keyLength: keyLength}
}

// Generate returns a key whose characters are each drawn independently from
// the alphanumeric alphabet.
func (g *Generator) Generate() string {
	result := make([]byte, g.keyLength)
	for i := range result {
		randomIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(symbols))))
		result[i] = symbols[randomIndex.Int64()]
	}

	return string(result)
}
