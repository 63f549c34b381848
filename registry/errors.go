package registry

import "errors"

var (
	// ErrDuplicateID is fatal: two generated records collided on ID, which
	// indicates a bug in a generator or a label collision upstream in rng,
	// never a recoverable data condition (spec §4.4, §7 RegistryError).
	ErrDuplicateID = errors.New("registry: duplicate entity ID")

	// ErrMissingReference is fatal: a generator referenced another entity
	// kind (e.g. an employee's manager) that does not exist in the registry
	// at the point it was needed.
	ErrMissingReference = errors.New("registry: missing referenced entity")

	// ErrSealed is the panic value when a caller attempts to append after
	// Seal.
	ErrSealed = errors.New("registry: registry is sealed")

	// ErrNotSealed is the panic value when a caller attempts a read-view
	// lookup before Seal has built the indexes.
	ErrNotSealed = errors.New("registry: registry is not sealed")
)
