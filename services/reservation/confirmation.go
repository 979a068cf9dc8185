package reservation

import (
	"fastpark/services/simulation"
	"strings"
)

const confirmationAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const confirmationLength = 9

// NewConfirmationNumber returns prefix followed by nine base-36 characters.
func NewConfirmationNumber(prefix string, src simulation.Source) string {
	var b strings.Builder
	b.Grow(len(prefix) + confirmationLength)
	b.WriteString(prefix)
	for i := 0; i < confirmationLength; i++ {
		b.WriteByte(confirmationAlphabet[src.Intn(len(confirmationAlphabet))])
	}
	return b.String()
}
