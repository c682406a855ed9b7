package share

import (
	"math/rand/v2"
	"strings"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed size of a share code.
const CodeLength = 6

// NewCode returns a random share code drawn uniformly from [A-Z0-9].
func NewCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// NormalizeCode maps user input to the canonical uppercase form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
