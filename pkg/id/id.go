// Package id mints trade identifiers. Ids are ULIDs: 26 characters of
// Crockford base32 that sort by creation time.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out strictly increasing ULIDs. It is safe for concurrent
// use.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator draws randomness from r. Within one millisecond successive
// ids increment the random part instead of drawing again.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{entropy: ulid.Monotonic(r, 0)}
}

// At returns an id whose time component is t.
func (g *Generator) At(t time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t), g.entropy)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

var std = NewGenerator(rand.Reader)

// New returns an id for the current instant.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns an id stamped with t. It panics if t predates the unix
// epoch or crypto/rand fails.
func NewAt(t time.Time) string {
	s, err := std.At(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Time extracts the creation instant encoded in an id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
