// Package idgen produces the message, instruction and transaction identifiers
// of a pain.001 message.
package idgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator yields unique identifiers of at most 35 characters.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

// NewID calls f.
func (f GeneratorFunc) NewID() string { return f() }

// UUIDGenerator returns random version 4 UUIDs without dashes (32 characters).
type UUIDGenerator struct{}

// NewID returns a fresh identifier.
func (UUIDGenerator) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Default returns the generator used when none is injected.
func Default() Generator {
	return UUIDGenerator{}
}

// NewUETR returns a lower-case canonical UUIDv4, the form UETR requires.
func NewUETR() string {
	return uuid.New().String()
}

// Sequence is a deterministic generator yielding Prefix followed by a
// zero-padded counter: MSG-0001, MSG-0002, ... It is safe for concurrent use.
type Sequence struct {
	Prefix string
	Width  int

	mu   sync.Mutex
	next int
}

// NewSequence creates a sequence starting at 1 with a width of 4 digits.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix, Width: 4}
}

// NewID returns the next identifier of the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	width := s.Width
	if width <= 0 {
		width = 4
	}
	return fmt.Sprintf("%s%0*d", s.Prefix, width, s.next)
}
