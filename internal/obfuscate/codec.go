// Package obfuscate hides text behind a salted base-N token.
//
// A token is the payload "<salt>###<plaintext>", read as a big-endian
// unsigned integer and rendered through a basen alphabet. The salt is a fresh
// random UUID per call, so equal plaintexts yield different tokens. This
// defends against casual inspection only; it is not encryption.
package obfuscate

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/suzukikyou/obfuscator/internal/basen"
)

// Separator sits between the salt and the plaintext.
const Separator = "###"

// saltLength is the length of a UUID in its canonical 8-4-4-4-12 form.
const saltLength = 36

var (
	ErrNegativePayload  = fmt.Errorf("%w: negative payload", basen.ErrFormat)
	ErrInvalidText      = fmt.Errorf("%w: payload is not valid UTF-8", basen.ErrFormat)
	ErrMissingSeparator = fmt.Errorf("%w: salt separator not found", basen.ErrFormat)
	ErrInvalidSalt      = fmt.Errorf("%w: malformed salt", basen.ErrFormat)
)

// Codec encodes and decodes obfuscated tokens. It is safe for concurrent
// use.
type Codec struct {
	rand io.Reader
}

type Option func(*Codec)

// WithRandom sets the source salts are drawn from. Reads are serialized, so
// a seeded math/rand source may be shared across goroutines. A nil reader
// leaves the crypto/rand default in place.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r == nil {
			return
		}
		c.rand = &lockedReader{r: r}
	}
}

// New returns a Codec drawing salts from crypto/rand unless overridden.
func New(opts ...Option) *Codec {
	c := &Codec{rand: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode obfuscates plaintext into a token of the given variant.
func (c *Codec) Encode(plaintext string, v Variant) (string, error) {
	alphabet, err := v.Alphabet()
	if err != nil {
		return "", err
	}

	salt, err := uuid.NewRandomFromReader(c.rand)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	payload := salt.String() + Separator + plaintext
	return alphabet.Encode(new(big.Int).SetBytes([]byte(payload))), nil
}

// Decode recovers the plaintext of a token. Every failure wraps
// basen.ErrEmptyInput, basen.ErrFormat or ErrUnknownVariant.
func (c *Codec) Decode(token string, v Variant) (string, error) {
	alphabet, err := v.Alphabet()
	if err != nil {
		return "", err
	}

	n, err := alphabet.Decode(token)
	if err != nil {
		return "", err
	}
	if n.Sign() < 0 {
		return "", ErrNegativePayload
	}

	payload := n.Bytes()
	if !utf8.Valid(payload) {
		return "", ErrInvalidText
	}

	salt, plaintext, found := strings.Cut(string(payload), Separator)
	if !found {
		return "", ErrMissingSeparator
	}
	if !isCanonicalSalt(salt) {
		return "", ErrInvalidSalt
	}
	return plaintext, nil
}

// TryDecode is like Decode but reports any failure as false.
func (c *Codec) TryDecode(token string, v Variant) (string, bool) {
	plaintext, err := c.Decode(token, v)
	if err != nil {
		return "", false
	}
	return plaintext, true
}

func isCanonicalSalt(s string) bool {
	if len(s) != saltLength {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
