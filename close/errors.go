package close

import "errors"

// ErrReconciliationVariance names a subledger total that disagrees with
// its GL control account beyond tolerance. ClosePeriod does not return it:
// it posts a correcting entry and reports the difference in
// Result.ReconciliationDiffs instead.
var ErrReconciliationVariance = errors.New("close: subledger reconciliation variance exceeds tolerance")
