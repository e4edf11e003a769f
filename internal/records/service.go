// Package records stores values behind short opaque codes.
//
// A code is the record's database id rendered in the scrambled base36
// alphabet. The stored payload is the value obfuscated with the base100
// variant, so rows do not show plaintext at a glance.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/suzukikyou/obfuscator/internal/basen"
	"github.com/suzukikyou/obfuscator/internal/obfuscate"
)

var (
	ErrInvalidCode   = errors.New("invalid record code")
	ErrCorruptRecord = errors.New("corrupt record payload")
)

// payloadVariant is the variant values are obfuscated with at rest.
const payloadVariant = obfuscate.Variant100

type Service struct {
	repo  Repository
	codec *obfuscate.Codec
	local *LocalCache
}

type ServiceOption func(*Service)

// WithLocalCache puts an in-process cache in front of the repository.
func WithLocalCache(c *LocalCache) ServiceOption {
	return func(s *Service) {
		s.local = c
	}
}

func NewService(repo Repository, codec *obfuscate.Codec, opts ...ServiceOption) *Service {
	s := &Service{
		repo:  repo,
		codec: codec,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store saves value and returns the code that resolves it.
func (s *Service) Store(ctx context.Context, value string) (string, error) {
	payload, err := s.codec.Encode(value, payloadVariant)
	if err != nil {
		return "", fmt.Errorf("failed to obfuscate value: %w", err)
	}

	id, err := s.repo.Save(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("failed to save record: %w", err)
	}

	code := basen.Base36.EncodeUint64(id)
	if s.local != nil {
		s.local.Set(code, value)
	}
	return code, nil
}

// Resolve returns the value stored under code.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	id, err := ParseCode(code)
	if err != nil {
		return "", err
	}

	if s.local != nil {
		if value, ok := s.local.Get(code); ok {
			return value, nil
		}
	}

	payload, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err // Pass through ErrNotFound or other errors
	}

	value, ok := s.codec.TryDecode(payload, payloadVariant)
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrCorruptRecord, id)
	}

	if s.local != nil {
		s.local.Set(code, value)
	}
	return value, nil
}

// ParseCode decodes a record code into its id. Only the canonical encoding
// of an id is accepted, so every record has exactly one code.
func ParseCode(code string) (uint64, error) {
	id, err := basen.Base36.DecodeUint64(code)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	if basen.Base36.EncodeUint64(id) != code {
		return 0, fmt.Errorf("%w: %q is not canonical", ErrInvalidCode, code)
	}
	return id, nil
}
