package registry

import (
	"fmt"

	"github.com/synthledger/core/rng"
)

// accountTypeRanges assigns each AccountType a base code and the typed
// control account it anchors, per spec §3 ("Control accounts are the GL
// counterparts of subledgers").
var accountTypeRanges = []struct {
	t           AccountType
	base        int
	name        string
	controlCode int
	controlFor  string
	controlName string
}{
	{Asset, 1000, "Assets", 1200, "AR", "Accounts Receivable"},
	{Liability, 2000, "Liabilities", 2100, "AP", "Accounts Payable"},
	{Equity, 3000, "Equity", 0, "", ""},
	{Revenue, 4000, "Revenue", 0, "", ""},
	{Expense, 5000, "Expenses", 0, "", ""},
}

// secondaryControls adds the remaining control accounts (FA, Inventory)
// that share the Asset leg but need their own code and ControlFor tag.
var secondaryControls = []struct {
	code, name, controlFor string
}{
	{"1500", "Fixed Assets", "FA"},
	{"1300", "Inventory", "Inventory"},
}

// GenerateAccounts builds the chart of accounts in the fixed first slot of
// the registry dependency order (spec §4.4). Every account is immutable
// once produced; codes are unique by construction.
func GenerateAccounts(cfg AccountConfig, stream *rng.Stream) ([]Account, error) {
	if cfg.MinDepth < 1 {
		cfg.MinDepth = 1
	}
	if cfg.MaxDepth < cfg.MinDepth {
		cfg.MaxDepth = cfg.MinDepth
	}
	if cfg.AccountsPerLeg < 1 {
		cfg.AccountsPerLeg = 5
	}

	var accounts []Account
	for _, leg := range accountTypeRanges {
		root := Account{
			Code:          fmt.Sprintf("%d", leg.base),
			Name:          leg.name,
			Type:          leg.t,
			NormalBalance: normalBalanceFor(leg.t),
			Depth:         1,
		}
		accounts = append(accounts, root)

		if leg.controlCode != 0 {
			accounts = append(accounts, Account{
				Code:          fmt.Sprintf("%d", leg.controlCode),
				Name:          leg.controlName,
				Type:          leg.t,
				NormalBalance: normalBalanceFor(leg.t),
				IsControl:     true,
				ControlFor:    leg.controlFor,
				Parent:        root.Code,
				Depth:         2,
			})
		}

		if leg.t == Asset {
			for _, sc := range secondaryControls {
				accounts = append(accounts, Account{
					Code:          sc.code,
					Name:          sc.name,
					Type:          leg.t,
					NormalBalance: normalBalanceFor(leg.t),
					IsControl:     true,
					ControlFor:    sc.controlFor,
					Parent:        root.Code,
					Depth:         2,
				})
			}
		}

		used := make(map[string]bool, len(accounts))
		for _, a := range accounts {
			used[a.Code] = true
		}
		next := leg.base + 100
		for i := 0; i < cfg.AccountsPerLeg; i++ {
			depth := stream.UniformInt(cfg.MinDepth, cfg.MaxDepth)
			if depth < 2 {
				depth = 2
			}
			for used[fmt.Sprintf("%d", next)] {
				next += 10 // skip codes already taken by a control account
			}
			code := fmt.Sprintf("%d", next)
			next += 10
			parent := root.Code
			currentDepth := 2
			for d := 2; d < depth; d++ {
				code = fmt.Sprintf("%s%d", code, stream.UniformInt(0, 9))
				currentDepth++
			}
			accounts = append(accounts, Account{
				Code:          code,
				Name:          fmt.Sprintf("%s leaf %d", leg.name, i+1),
				Type:          leg.t,
				NormalBalance: normalBalanceFor(leg.t),
				Parent:        parent,
				Depth:         currentDepth,
			})
		}
	}

	return accounts, nil
}
