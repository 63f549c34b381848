package rng

import "errors"

// ErrLabelCollision is returned when two callers request the same derived
// stream label from the same parent. Per spec §4.1 this is a ConfigError —
// fatal, surfaced before generation proceeds.
var ErrLabelCollision = errors.New("rng: stream label collision")
