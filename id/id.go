// Package id defines deterministic, prefix-qualified identity types for
// every entity the generation core produces.
//
// Every entity uses a single ID struct with a prefix that identifies the
// entity kind. IDs are derived as uuid_v5(namespace, label||index): for a
// fixed seed and label they are always the same value, so two runs of the
// same config+seed produce byte-identical IDs (spec §4.1, P1).
package id

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// Prefix identifies the entity kind encoded in an ID.
type Prefix string

// Prefix constants for all entity kinds the core produces.
const (
	PrefixAccount      Prefix = "acct"
	PrefixVendor       Prefix = "vend"
	PrefixCustomer     Prefix = "cust"
	PrefixMaterial     Prefix = "matl"
	PrefixFixedAsset   Prefix = "fa"
	PrefixEmployee     Prefix = "emp"
	PrefixJournalEntry Prefix = "je"
	PrefixPO           Prefix = "po"
	PrefixGR           Prefix = "gr"
	PrefixVendorInv    Prefix = "vinv"
	PrefixPayment      Prefix = "pay"
	PrefixSalesOrder   Prefix = "so"
	PrefixDelivery     Prefix = "dlv"
	PrefixCustomerInv  Prefix = "cinv"
	PrefixReceipt      Prefix = "rcpt"
	PrefixAnomaly      Prefix = "anom"
	PrefixPattern      Prefix = "pat"
)

// namespaceSalt is combined with the run seed to build the uuid_v5
// namespace, so that IDs from two different seeds never collide even if a
// label happens to repeat.
const namespaceSalt = "synthledger-core/seed-namespace/v1"

// Namespace derives the uuid_v5 namespace for a given seed.
func Namespace(seed uint64) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", namespaceSalt, seed)))
}

// ID is the primary identifier type for every generated entity. It wraps a
// deterministic UUIDv5 plus the prefix used to derive it, giving a
// URL-safe "prefix_suffix" string form.
//
//nolint:recvcheck // value receivers for read-only methods, pointer receivers for Scan.
type ID struct {
	prefix Prefix
	inner  uuid.UUID
	valid  bool
}

// Nil is the zero-value ID.
var Nil ID

// New derives a deterministic ID for (namespace, prefix, label, index).
// The same four inputs always yield the same ID, regardless of thread
// count or call order — this is what lets C4 generators run their
// per-kind pass independently of scheduling and still produce stable IDs.
func New(namespace uuid.UUID, prefix Prefix, label string, index int) ID {
	name := fmt.Sprintf("%s/%s/%d", prefix, label, index)
	return ID{prefix: prefix, inner: uuid.NewSHA1(namespace, []byte(name)), valid: true}
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return i.prefix
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool { return !i.valid }

// String returns the "prefix_suffix" representation. Empty for Nil.
func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return string(i.prefix) + "_" + i.inner.String()
}

// Equal reports whether two IDs are identical.
func (i ID) Equal(other ID) bool {
	return i.valid == other.valid && i.prefix == other.prefix && i.inner == other.inner
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Value implements driver.Valuer for sink/sqlite storage.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}
	return i.String(), nil
}

// Scan implements sql.Scanner.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}

// Parse parses a "prefix_uuid" string into an ID.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}
	idx := lastUnderscore(s)
	if idx < 0 {
		return Nil, fmt.Errorf("id: parse %q: missing prefix separator", s)
	}
	prefix, suffix := s[:idx], s[idx+1:]
	parsed, err := uuid.Parse(suffix)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{prefix: Prefix(prefix), inner: parsed, valid: true}, nil
}

func lastUnderscore(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '_' {
			return i
		}
	}
	return -1
}
