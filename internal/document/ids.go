package document

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces candidate entry identifiers.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

const maxIDAttempts = 16

// uniqueID draws ids from gen until one is not taken. A generator that keeps
// colliding gets a numeric suffix so the result is still unique.
func uniqueID(gen IDGenerator, taken func(string) bool) string {
	var id string
	for i := 0; i < maxIDAttempts; i++ {
		id = gen()
		if id != "" && !taken(id) {
			return id
		}
	}
	if id == "" {
		id = "entry"
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
