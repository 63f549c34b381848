package synth

import "github.com/synthledger/core/id"

// ID is the primary identifier type for every generated entity.
type ID = id.ID

// Prefix identifies the entity kind encoded in an ID.
type Prefix = id.Prefix
