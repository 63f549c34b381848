package registry

import (
	"fmt"

	"github.com/synthledger/core/id"
)

// SoDRule names one segregation-of-duties rule SoDConflicts checks
// employees against.
type SoDRule struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SoDConflict flags an employee whose create/approve authority breaches
// one of the rules SoDRules returns.
type SoDConflict struct {
	EmployeeID id.ID  `json:"employee_id"`
	Rule       string `json:"rule"`
	Detail     string `json:"detail"`
}

// InternalControl documents one control point derived from the chart of
// accounts' is_control flags.
type InternalControl struct {
	Name        string `json:"name"`
	AccountCode string `json:"account_code"`
	Description string `json:"description"`
}

// ControlAccountMapping ties a control account to the subledger it
// reconciles against, the shape the close engine's reconciliation pass
// consumes.
type ControlAccountMapping struct {
	AccountCode   string `json:"account_code"`
	ControlFor    string `json:"control_for"`
	SubledgerType string `json:"subledger_type"`
}

var sodRules = []SoDRule{
	{
		Name:        "create_and_approve",
		Description: "the same employee holds both create and approve authority, so nothing stops them self-approving a posting past their own limit",
	},
}

// SoDRules returns the fixed rule set SoDConflicts checks against.
func (r *Registry) SoDRules() []SoDRule {
	return append([]SoDRule(nil), sodRules...)
}

// SoDConflicts flags every employee who can both create and approve
// entries, per the create_and_approve rule.
func (r *Registry) SoDConflicts() []SoDConflict {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	var conflicts []SoDConflict
	for _, e := range r.employees {
		if e.CanCreate && e.CanApprove {
			conflicts = append(conflicts, SoDConflict{
				EmployeeID: e.ID,
				Rule:       sodRules[0].Name,
				Detail:     fmt.Sprintf("%s (%s/%s) can create and approve up to %s", e.Name, e.Department, e.Role, e.ApprovalLimit),
			})
		}
	}
	return conflicts
}

// InternalControls derives one control-point record per is_control
// account in the sealed chart of accounts.
func (r *Registry) InternalControls() []InternalControl {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	var controls []InternalControl
	for _, a := range r.accounts {
		if !a.IsControl {
			continue
		}
		controls = append(controls, InternalControl{
			Name:        fmt.Sprintf("%s_reconciliation", a.ControlFor),
			AccountCode: a.Code,
			Description: fmt.Sprintf("%s (%s) reconciles to the %s subledger", a.Name, a.Code, a.ControlFor),
		})
	}
	return controls
}

// ControlAccountMappings derives the account-to-subledger map straight
// from each account's is_control/control_for fields, mechanical at
// registry-seal time rather than a generated pass of its own.
func (r *Registry) ControlAccountMappings() []ControlAccountMapping {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	var mappings []ControlAccountMapping
	for _, a := range r.accounts {
		if !a.IsControl {
			continue
		}
		mappings = append(mappings, ControlAccountMapping{
			AccountCode:   a.Code,
			ControlFor:    a.ControlFor,
			SubledgerType: a.ControlFor,
		})
	}
	return mappings
}
