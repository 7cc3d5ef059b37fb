package state

import "github.com/oklog/ulid/v2"

// NewID returns a fresh identifier for reactive nodes.
// IDs sort by creation time, which keeps log output ordered.
func NewID() ulid.ULID {
	return ulid.Make()
}
