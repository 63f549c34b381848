// Package balance implements the balance tracker (C5): a serializing
// actor that owns every (company, account, period) running balance and
// answers posting and snapshot requests over a single ordered channel, so
// there is never a shared mutable map touched by more than one goroutine.
package balance

import (
	"context"
	"fmt"

	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/types"
)

// inboxSize bounds the actor's request channel; callers block (respecting
// ctx) once it fills, giving natural back-pressure per spec §5.
const inboxSize = 256

// Tracker is the single owner of live balance state. All access goes
// through its request channel; Post/Snapshot/IsBalanced never touch the
// underlying map directly.
type Tracker struct {
	reg    *registry.Registry
	inbox  chan any
	done   chan struct{}
	closed chan struct{}
}

type postCmd struct {
	entries []journal.Entry
	reply   chan error
}

type snapshotCmd struct {
	period Period
	reply  chan TrialBalance
}

type balancedCmd struct {
	reply chan bool
}

// New starts the tracker's owning goroutine. reg supplies account
// type/normal-balance classification for the A=L+E check; it must already
// be sealed.
func New(reg *registry.Registry) *Tracker {
	t := &Tracker{
		reg:    reg,
		inbox:  make(chan any, inboxSize),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go t.run()
	return t
}

// Post sends a batch of already-balanced entries for accounting. Every
// entry in the batch is individually validated (Σdebits == Σcredits) and
// rejected as a batch on the first violation, per spec §4.5.
func (t *Tracker) Post(ctx context.Context, entries ...journal.Entry) error {
	select {
	case <-t.closed:
		return ErrTrackerClosed
	default:
	}
	reply := make(chan error, 1)
	select {
	case t.inbox <- postCmd{entries: entries, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	case <-t.closed:
		return ErrTrackerClosed
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the trial balance for period, reflecting every batch
// applied before this call was enqueued — never a partially-applied batch,
// since the actor only answers between processed commands (spec §5
// "consistent-prefix").
func (t *Tracker) Snapshot(ctx context.Context, period Period) (TrialBalance, error) {
	select {
	case <-t.closed:
		return TrialBalance{}, ErrTrackerClosed
	default:
	}
	reply := make(chan TrialBalance, 1)
	select {
	case t.inbox <- snapshotCmd{period: period, reply: reply}:
	case <-ctx.Done():
		return TrialBalance{}, ctx.Err()
	case <-t.closed:
		return TrialBalance{}, ErrTrackerClosed
	}
	select {
	case tb := <-reply:
		return tb, nil
	case <-ctx.Done():
		return TrialBalance{}, ctx.Err()
	}
}

// IsBalanced reports whether every period currently tracked satisfies
// Assets == Liabilities + Equity + (Revenue - Expense), to the decimal.
func (t *Tracker) IsBalanced(ctx context.Context) (bool, error) {
	select {
	case <-t.closed:
		return false, ErrTrackerClosed
	default:
	}
	reply := make(chan bool, 1)
	select {
	case t.inbox <- balancedCmd{reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	case <-t.closed:
		return false, ErrTrackerClosed
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Close stops the owning goroutine after draining any in-flight commands.
func (t *Tracker) Close() {
	close(t.done)
	<-t.closed
}

func (t *Tracker) run() {
	defer close(t.closed)
	states := make(map[Key]*State)

	handle := func(msg any) {
		switch cmd := msg.(type) {
		case postCmd:
			cmd.reply <- t.applyPost(states, cmd.entries)
		case snapshotCmd:
			cmd.reply <- t.buildSnapshot(states, cmd.period)
		case balancedCmd:
			cmd.reply <- t.checkBalanced(states)
		}
	}

	for {
		select {
		case <-t.done:
			for {
				select {
				case msg := <-t.inbox:
					handle(msg)
				default:
					return
				}
			}
		case msg := <-t.inbox:
			handle(msg)
		}
	}
}

func (t *Tracker) applyPost(states map[Key]*State, entries []journal.Entry) error {
	for _, e := range entries {
		if !e.IsBalanced() {
			return fmt.Errorf("balance: entry %s: %w", e.DocID, ErrUnbalancedEntry)
		}
	}
	for _, e := range entries {
		period := Period{FiscalYear: e.FiscalYear, FiscalPeriod: e.FiscalPeriod}
		for _, line := range e.Lines {
			key := Key{Company: e.Company, Account: line.Account, Period: period}
			s, ok := states[key]
			if !ok {
				s = &State{Key: key}
				states[key] = s
			}
			s.PeriodDebits = s.PeriodDebits.Add(line.Debit)
			s.PeriodCredits = s.PeriodCredits.Add(line.Credit)
			s.Closing = s.Opening.Add(s.PeriodDebits).Sub(s.PeriodCredits)
		}
	}
	return nil
}

func (t *Tracker) buildSnapshot(states map[Key]*State, period Period) TrialBalance {
	tb := TrialBalance{Period: period}
	for key, s := range states {
		if key.Period == period {
			tb.Lines = append(tb.Lines, *s)
		}
	}
	return tb
}

func (t *Tracker) checkBalanced(states map[Key]*State) bool {
	type bucket struct {
		company string
		period  Period
	}
	// raw Closing is already (debits - credits); the accounting identity
	// A - L - E - Revenue + Expense == 0 holds directly against that raw
	// sign, with no normal-balance flip needed.
	totals := make(map[bucket]types.Decimal)
	for key, s := range states {
		b := bucket{company: key.Company, period: key.Period}
		acct, ok := t.reg.AccountByCode(key.Account)
		if !ok {
			continue
		}
		switch acct.Type {
		case registry.Asset, registry.Expense:
			totals[b] = totals[b].Add(s.Closing)
		case registry.Liability, registry.Equity, registry.Revenue:
			totals[b] = totals[b].Add(s.Closing)
		}
	}
	for _, total := range totals {
		if !total.IsZero() {
			return false
		}
	}
	return true
}
