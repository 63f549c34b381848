package registry

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/types"
)

var employeeRoles = []string{"Clerk", "Analyst", "Supervisor", "Manager", "Director", "Controller"}
var employeeDepartments = []string{"AP", "AR", "Treasury", "FP&A", "Procurement", "Sales"}

// GenerateEmployees builds the persona roster used for created_by/
// approved_by attribution; Registry.SoDConflicts checks the resulting
// CanCreate/CanApprove flags for segregation-of-duties conflicts once
// the roster is sealed.
func GenerateEmployees(cfg EmployeeConfig, stream *rng.Stream, namespace uuid.UUID) ([]Employee, error) {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	thresholds := cfg.ApprovalThresholds
	if len(thresholds) == 0 {
		thresholds = []float64{1000, 10000, 100000, 1000000}
	}

	employees := make([]Employee, 0, cfg.Count)
	var managers []id.ID

	for i := 0; i < cfg.Count; i++ {
		label := fmt.Sprintf("registry/employee/%d", i)
		eid := id.New(namespace, id.PrefixEmployee, label, i)

		roleIdx := stream.UniformInt(0, len(employeeRoles)-1)
		role := employeeRoles[roleIdx]
		dept := employeeDepartments[stream.UniformInt(0, len(employeeDepartments)-1)]

		// seniority scales with role index, giving supervisors+ a
		// proportionally higher place on the approval ladder.
		limitIdx := roleIdx
		if limitIdx >= len(thresholds) {
			limitIdx = len(thresholds) - 1
		}
		limit := types.NewFromFloat(thresholds[limitIdx])

		canApprove := roleIdx >= 2 // Supervisor and above approve
		canCreate := roleIdx <= 3  // Managers and below can create entries

		var managerID id.ID
		if roleIdx < len(employeeRoles)-1 && len(managers) > 0 {
			managerID = managers[stream.UniformInt(0, len(managers)-1)]
		}

		e := Employee{
			ID:            eid,
			Name:          fmt.Sprintf("%s %s #%d", dept, role, i+1),
			Department:    dept,
			Role:          role,
			ApprovalLimit: limit,
			CanCreate:     canCreate,
			CanApprove:    canApprove,
			ManagerID:     managerID,
		}
		employees = append(employees, e)

		if roleIdx >= 3 {
			managers = append(managers, eid)
		}
	}

	return employees, nil
}
