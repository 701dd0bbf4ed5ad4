package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Todo represents a single entry of the todo list.
type Todo struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Collection maps todo ids to their text. Order is not meaningful.
type Collection map[string]string

// Validate checks that the todo has an id.
func (t Todo) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("id is required")
	}
	return nil
}

// IDGenerator returns a new unique todo id. Implementations must be safe
// for concurrent use.
type IDGenerator func() string

// UUIDGenerator generates random (version 4) UUIDs.
func UUIDGenerator() string {
	return uuid.NewString()
}

// SequenceGenerator returns an IDGenerator producing prefix-1, prefix-2, ...
func SequenceGenerator(prefix string) IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedGenerator returns an IDGenerator that hands out the given ids in
// order and panics once they are exhausted.
func FixedGenerator(ids ...string) IDGenerator {
	var (
		mu   sync.Mutex
		next int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(ids) {
			panic("models: fixed id generator exhausted")
		}
		id := ids[next]
		next++
		return id
	}
}
