package flow

import (
	"hash"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/synthledger/core/rng"
)

// FlowKey identifies one flow instance to be partitioned across shards.
type FlowKey struct {
	Company   string
	FlowIndex int
}

// ShardFor returns the deterministic shard index FlowKey partitions into,
// via fnv64a(company, flowIndex) % shardCount, per spec §4.6.
func ShardFor(key FlowKey, shardCount int) int {
	if shardCount < 1 {
		shardCount = 1
	}
	h := fnv.New64a()
	h.Write([]byte(key.Company))
	h.Write([]byte{0})
	writeInt(h, key.FlowIndex)
	return int(h.Sum64() % uint64(shardCount))
}

func writeInt(h hash.Hash, n int) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(n >> (8 * i))
	}
	h.Write(buf[:])
}

// Worker produces the documents for one flow instance. A panic inside
// Worker is recovered at the shard boundary and converted to a
// PartialFlowError; it is never retried.
type Worker func(key FlowKey, stream *rng.Stream) ([]*Document, error)

// shardResult is one shard goroutine's outcome.
type shardResult struct {
	index int
	docs  []*Document
	err   *PartialFlowError
}

// RunShards partitions keys across shardCount deterministic shards, each
// running on its own goroutine with its own derived stream, and returns
// every document any shard produced plus one PartialFlowError per shard
// that aborted. Shard output preserves partition order; the engine never
// cross-references between shards (spec §4.6).
func RunShards(keys []FlowKey, shardCount int, root *rng.Stream, work Worker) ([]*Document, []*PartialFlowError) {
	if shardCount < 1 {
		shardCount = 1
	}

	buckets := make(map[int][]FlowKey, shardCount)
	for _, k := range keys {
		s := ShardFor(k, shardCount)
		buckets[s] = append(buckets[s], k)
	}

	results := make([]shardResult, shardCount)
	var wg sync.WaitGroup
	for shardIdx := 0; shardIdx < shardCount; shardIdx++ {
		shardIdx := shardIdx
		flowKeys := buckets[shardIdx]
		sort.Slice(flowKeys, func(i, j int) bool {
			if flowKeys[i].Company != flowKeys[j].Company {
				return flowKeys[i].Company < flowKeys[j].Company
			}
			return flowKeys[i].FlowIndex < flowKeys[j].FlowIndex
		})

		stream, err := root.Split(shardLabel(shardIdx))
		if err != nil {
			results[shardIdx] = shardResult{index: shardIdx, err: &PartialFlowError{ShardIndex: shardIdx, Recovered: err}}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[shardIdx] = runShard(shardIdx, flowKeys, stream, work)
		}()
	}
	wg.Wait()

	var allDocs []*Document
	var errs []*PartialFlowError
	for i := 0; i < shardCount; i++ {
		allDocs = append(allDocs, results[i].docs...)
		if results[i].err != nil {
			errs = append(errs, results[i].err)
		}
	}
	return allDocs, errs
}

func shardLabel(shardIdx int) string {
	return "flow/shard/" + itoa(shardIdx)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func runShard(shardIdx int, keys []FlowKey, stream *rng.Stream, work Worker) (result shardResult) {
	result.index = shardIdx
	defer func() {
		if r := recover(); r != nil {
			result.err = &PartialFlowError{ShardIndex: shardIdx, Recovered: r}
		}
	}()

	for _, k := range keys {
		docs, err := work(k, stream)
		if err != nil {
			result.err = &PartialFlowError{ShardIndex: shardIdx, FlowIndex: k.FlowIndex, Recovered: err}
			return
		}
		result.docs = append(result.docs, docs...)
	}
	return
}
