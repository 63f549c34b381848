package flow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/synthledger/core/rng"
)

func TestShardForIsDeterministic(t *testing.T) {
	key := FlowKey{Company: "US01", FlowIndex: 42}
	a := ShardFor(key, 8)
	b := ShardFor(key, 8)
	if a != b {
		t.Fatalf("ShardFor not deterministic: %d vs %d", a, b)
	}
	if a < 0 || a >= 8 {
		t.Fatalf("ShardFor out of range: %d", a)
	}
}

func TestShardForDistributesAcrossShards(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		key := FlowKey{Company: "US01", FlowIndex: i}
		seen[ShardFor(key, 8)] = true
	}
	if len(seen) < 4 {
		t.Fatalf("only %d distinct shards used out of 8, expected better spread", len(seen))
	}
}

func TestRunShardsCollectsAllDocuments(t *testing.T) {
	var keys []FlowKey
	for i := 0; i < 20; i++ {
		keys = append(keys, FlowKey{Company: "US01", FlowIndex: i})
	}
	root := rng.Root(1)
	docs, errs := RunShards(keys, 4, root, func(k FlowKey, s *rng.Stream) ([]*Document, error) {
		return []*Document{{Company: k.Company, Status: fmt.Sprintf("flow-%d", k.FlowIndex)}}, nil
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(docs) != 20 {
		t.Fatalf("len(docs) = %d, want 20", len(docs))
	}
}

func TestRunShardsRecoversPanic(t *testing.T) {
	keys := []FlowKey{{Company: "US01", FlowIndex: 1}}
	root := rng.Root(2)
	docs, errs := RunShards(keys, 1, root, func(k FlowKey, s *rng.Stream) ([]*Document, error) {
		panic("boom")
	})
	if len(docs) != 0 {
		t.Fatalf("expected no docs, got %d", len(docs))
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
}

func TestRunShardsReturnsWorkerError(t *testing.T) {
	keys := []FlowKey{{Company: "US01", FlowIndex: 1}}
	root := rng.Root(3)
	wantErr := errors.New("flow broke")
	_, errs := RunShards(keys, 1, root, func(k FlowKey, s *rng.Stream) ([]*Document, error) {
		return nil, wantErr
	})
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
}
