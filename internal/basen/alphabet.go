// Package basen converts arbitrary-precision signed integers to and from
// strings over a fixed, scrambled alphabet.
//
// The alphabets and negative signs defined here are a wire protocol: a token
// issued with one alphabet can only be read back with the exact same symbol
// order.
package basen

import (
	"fmt"
	"math/big"
	"unicode/utf8"
)

const (
	base36Symbols  = "gq906tjbk7nxepslyiawcvu8foh41d32r5zm"
	base36Negative = '_'

	base100Symbols  = `v=OşHBlhx¥D|ß#+{d3Nz£/4€[ğpPAg);i@9yK&c?E.çaVö*§}¢,M1]RUbts2W8~J-QmS%q:oLC6XkTurZ0(\$n5fI^_wj!eü7FYG`
	base100Negative = '¤'
)

var (
	// Base36 is the ASCII-only alphabet, safe for URLs.
	Base36 = MustAlphabet("base36", base36Symbols, base36Negative)
	// Base100 trades character-set compatibility for shorter tokens.
	Base100 = MustAlphabet("base100", base100Symbols, base100Negative)
)

// Alphabet is an ordered set of digit symbols plus a sign symbol. It is
// immutable and safe for concurrent use.
type Alphabet struct {
	name     string
	symbols  []rune
	negative rune
	indices  map[rune]int
	radix    *big.Int
}

// NewAlphabet builds an alphabet where the i-th rune of symbols is the digit
// for value i. The negative sign must not be one of the symbols.
func NewAlphabet(name, symbols string, negative rune) (*Alphabet, error) {
	if !utf8.ValidString(symbols) {
		return nil, fmt.Errorf("%w: alphabet %q symbols are not valid UTF-8", ErrArgumentRange, name)
	}
	if negative == utf8.RuneError || !utf8.ValidRune(negative) {
		return nil, fmt.Errorf("%w: alphabet %q has an invalid negative sign", ErrArgumentRange, name)
	}

	runes := []rune(symbols)
	if len(runes) < 2 {
		return nil, fmt.Errorf("%w: alphabet %q needs at least 2 symbols, got %d", ErrArgumentRange, name, len(runes))
	}

	indices := make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := indices[r]; dup {
			return nil, fmt.Errorf("%w: alphabet %q repeats symbol %q", ErrArgumentRange, name, r)
		}
		indices[r] = i
	}
	if _, ok := indices[negative]; ok {
		return nil, fmt.Errorf("%w: alphabet %q contains its negative sign %q", ErrArgumentRange, name, negative)
	}

	return &Alphabet{
		name:     name,
		symbols:  runes,
		negative: negative,
		indices:  indices,
		radix:    big.NewInt(int64(len(runes))),
	}, nil
}

// MustAlphabet is like NewAlphabet but panics on an invalid configuration.
func MustAlphabet(name, symbols string, negative rune) *Alphabet {
	a, err := NewAlphabet(name, symbols, negative)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Alphabet) Name() string {
	return a.name
}

// Radix returns the number of digit symbols.
func (a *Alphabet) Radix() int {
	return len(a.symbols)
}

func (a *Alphabet) Negative() rune {
	return a.negative
}

// Zero returns the symbol at index 0.
func (a *Alphabet) Zero() rune {
	return a.symbols[0]
}

// Contains reports whether r is a digit symbol of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.indices[r]
	return ok
}

func (a *Alphabet) String() string {
	return a.name
}
