package guard

import "errors"

// ErrResourceExhausted is returned when Emergency state persists past the
// configured panic timeout, per spec §4.3/§7 (ResourceError::Exhausted).
var ErrResourceExhausted = errors.New("guard: resource pressure exhausted run budget")
