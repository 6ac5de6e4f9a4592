package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Public ID prefixes, one per entity type.
const (
	UserIDPrefix     = "U"
	ContentIDPrefix  = "C"
	TemplateIDPrefix = "T"
)

// publicIDDigits is the number of random decimal digits after the prefix.
const publicIDDigits = 9

var tenDigitBound = big.NewInt(10)

// NewPublicID returns prefix followed by nine random decimal digits, for
// example "C482019375". Public IDs are the only identifiers exposed over the
// API; internal UUIDs never leave the service.
func NewPublicID(prefix string) (string, error) {
	var b strings.Builder
	b.Grow(len(prefix) + publicIDDigits)
	b.WriteString(prefix)
	for i := 0; i < publicIDDigits; i++ {
		n, err := rand.Int(rand.Reader, tenDigitBound)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// IsPublicID reports whether id has the given prefix followed by exactly
// nine decimal digits.
func IsPublicID(prefix, id string) bool {
	if !strings.HasPrefix(id, prefix) {
		return false
	}
	digits := id[len(prefix):]
	if len(digits) != publicIDDigits {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
