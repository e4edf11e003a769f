package basen

import (
	"fmt"
	"math/big"
)

// Encode renders v most significant digit first, with a leading negative
// sign for negative values.
func (a *Alphabet) Encode(v *big.Int) string {
	if v.Sign() == 0 {
		return string(a.symbols[0])
	}

	isNegative := v.Sign() < 0
	n := new(big.Int).Abs(v)
	rem := new(big.Int)

	// digits are collected least significant first
	digits := make([]rune, 0, n.BitLen()/4+2)
	for n.Cmp(a.radix) >= 0 {
		n.QuoRem(n, a.radix, rem)
		digits = append(digits, a.symbols[rem.Int64()])
	}
	digits = append(digits, a.symbols[n.Int64()])
	if isNegative {
		digits = append(digits, a.negative)
	}

	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	// Issued tokens never start with the zero symbol; exactly one is dropped
	// if the assembled string does.
	if digits[0] == a.symbols[0] {
		digits = digits[1:]
	}
	return string(digits)
}

func (a *Alphabet) EncodeInt64(v int64) string {
	return a.Encode(big.NewInt(v))
}

func (a *Alphabet) EncodeUint64(v uint64) string {
	return a.Encode(new(big.Int).SetUint64(v))
}

// Decode parses a token produced by Encode.
func (a *Alphabet) Decode(s string) (*big.Int, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}

	runes := []rune(s)
	isNegative := runes[0] == a.negative
	if isNegative {
		runes = runes[1:]
		if len(runes) == 0 {
			return nil, fmt.Errorf("%w: %s token has a sign but no digits", ErrFormat, a.name)
		}
	}

	v := new(big.Int)
	d := new(big.Int)
	for i, r := range runes {
		idx, ok := a.indices[r]
		if !ok {
			pos := i
			if isNegative {
				pos++
			}
			return nil, &FormatError{Alphabet: a.name, Rune: r, Pos: pos}
		}
		v.Mul(v, a.radix)
		v.Add(v, d.SetInt64(int64(idx)))
	}

	if isNegative {
		v.Neg(v)
	}
	return v, nil
}

// TryDecode is like Decode but reports failure as false with a zero value.
func (a *Alphabet) TryDecode(s string) (*big.Int, bool) {
	v, err := a.Decode(s)
	if err != nil {
		return new(big.Int), false
	}
	return v, true
}

// DecodeInt64 decodes s and checks that the value fits in an int64.
func (a *Alphabet) DecodeInt64(s string) (int64, error) {
	v, err := a.Decode(s)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("%w: %s token %q overflows int64", ErrArgumentRange, a.name, s)
	}
	return v.Int64(), nil
}

// DecodeUint64 decodes s and checks that the value fits in a uint64.
func (a *Alphabet) DecodeUint64(s string) (uint64, error) {
	v, err := a.Decode(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s token %q does not fit uint64", ErrArgumentRange, a.name, s)
	}
	return v.Uint64(), nil
}
