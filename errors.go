package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the orchestrator and its top-level config
// validation, per spec §7.
var (
	ErrInvalidConfig      = errors.New("synth: invalid configuration")
	ErrOrchestratorClosed = errors.New("synth: orchestrator already stopped")
	ErrNoSinks            = errors.New("synth: no sinks configured")
	ErrFlowRateOverCommit = errors.New("synth: flow_rate_p2p + flow_rate_o2c exceeds 1.0")
)

// ValidationError represents one field-level configuration failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("synth: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError collects every validation failure found in one pass over a
// Config, rather than stopping at the first, so an operator sees the
// whole list at once.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "synth: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("synth: %d configuration errors", len(e.Errors))
}

// Add appends err to the multi-error if it is non-nil.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error has been collected.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil returns e as an error if it has collected any, else nil — for
// returning MultiError from a function that should report success as nil.
func (e MultiError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// IsRetryable reports whether err represents a transient failure a caller
// may retry (a sink write/flush failure), as opposed to a structural
// configuration or invariant violation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoSinks)
}
