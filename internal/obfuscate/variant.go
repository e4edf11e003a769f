package obfuscate

import (
	"fmt"
	"strings"

	"github.com/suzukikyou/obfuscator/internal/basen"
)

// Variant selects the alphabet a token is rendered in.
type Variant int

const (
	Variant36  Variant = 36
	Variant100 Variant = 100
)

// ErrUnknownVariant is returned for a variant other than 36 or 100.
var ErrUnknownVariant = fmt.Errorf("%w: unknown variant", basen.ErrArgumentRange)

// ParseVariant accepts "36", "base36", "100" and "base100".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "36", "base36":
		return Variant36, nil
	case "100", "base100":
		return Variant100, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownVariant, s)
	}
}

// Alphabet returns the alphabet for v.
func (v Variant) Alphabet() (*basen.Alphabet, error) {
	switch v {
	case Variant36:
		return basen.Base36, nil
	case Variant100:
		return basen.Base100, nil
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownVariant, int(v))
	}
}

func (v Variant) String() string {
	return fmt.Sprintf("base%d", int(v))
}
