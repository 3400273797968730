package id

import "github.com/google/uuid"

// GenerateID creates a unique opaque identifier.
// IDs are assigned once at creation and never change afterwards.
func GenerateID() string {
	return uuid.NewString()
}
