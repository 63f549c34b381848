package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synth.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreMigratesAndWritesAccounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	accounts := []registry.Account{
		{Code: "1000", Name: "Cash", Type: registry.Asset, NormalBalance: registry.Debit, Depth: 1},
		{Code: "2000", Name: "Accounts Payable", Type: registry.Liability, NormalBalance: registry.Credit, Depth: 1},
	}
	if err := s.WriteAccounts(ctx, accounts); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if count != len(accounts) {
		t.Fatalf("accounts row count = %d, want %d", count, len(accounts))
	}
}

func TestStoreWriteEntriesWritesHeaderAndLines(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	namespace := id.Namespace(1)
	docID := id.New(namespace, id.PrefixJournalEntry, "test", 0)
	entry := &journal.Entry{
		DocID:   docID,
		Company: "US01",
		Lines: []journal.Line{
			{Account: "1000", Debit: types.NewFromInt(100), Currency: "USD"},
			{Account: "4000", Credit: types.NewFromInt(100), Currency: "USD"},
		},
	}

	if err := s.WriteEntries(ctx, []*journal.Entry{entry}); err != nil {
		t.Fatalf("WriteEntries: %v", err)
	}

	var headerCount, lineCount int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal_entries").Scan(&headerCount); err != nil {
		t.Fatalf("count journal_entries: %v", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal_lines WHERE doc_id = ?", docID.String()).Scan(&lineCount); err != nil {
		t.Fatalf("count journal_lines: %v", err)
	}
	if headerCount != 1 {
		t.Fatalf("journal_entries row count = %d, want 1", headerCount)
	}
	if lineCount != len(entry.Lines) {
		t.Fatalf("journal_lines row count = %d, want %d", lineCount, len(entry.Lines))
	}
}

func TestStorePing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
