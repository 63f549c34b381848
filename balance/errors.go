package balance

import "errors"

// ErrUnbalancedEntry is returned by Post when an entry's debits and
// credits do not sum equal, per spec §4.5 ("entry rejected otherwise").
var ErrUnbalancedEntry = errors.New("balance: entry debits and credits do not sum equal")

// ErrTrackerClosed is returned when Post or Snapshot is called after Close.
var ErrTrackerClosed = errors.New("balance: tracker is closed")
