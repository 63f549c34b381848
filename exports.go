package synth

import (
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/types"
)

// Decimal is re-exported from the types package so callers configuring a
// generation run don't need a second import for amount bounds/thresholds.
type Decimal = types.Decimal

// Zero is the re-exported additive identity for Decimal.
var Zero = types.Zero

// Nil is the zero-value ID: no entity, no reference.
var Nil = id.Nil
