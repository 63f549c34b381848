package flow

import "fmt"

// PartialFlowError reports that a shard's goroutine panicked partway
// through its flow stream; already-produced documents are kept and the
// run continues, per spec §4.6/§7.
type PartialFlowError struct {
	ShardIndex int
	FlowIndex  int
	Recovered  any
}

func (e *PartialFlowError) Error() string {
	return fmt.Sprintf("flow: shard %d aborted at flow %d: %v", e.ShardIndex, e.FlowIndex, e.Recovered)
}
