package anomaly

import "errors"

// ErrUnmetBudget is returned when the realized anomaly rate strays more
// than 10% from the target rate, per spec §4.9/§7. It is informational,
// not fatal: callers receive it alongside whatever labels were produced.
var ErrUnmetBudget = errors.New("anomaly: realized rate strayed more than 10% from target")
