package types

import "github.com/google/uuid"

// GenerateUUID returns a random (v4) UUID string. Entity ids are opaque and
// collision probability is treated as negligible, so uniqueness is not
// re-checked against existing lists.
func GenerateUUID() string {
	return uuid.NewString()
}
