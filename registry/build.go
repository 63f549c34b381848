package registry

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/synthledger/core/rng"
)

// BuildConfig bundles the per-entity-kind sections BuildAll needs, mirroring
// spec §4.4's fixed generation order.
type BuildConfig struct {
	Accounts  AccountConfig
	Employees EmployeeConfig
	Vendors   VendorConfig
	Customers CustomerConfig
	Materials MaterialConfig
	Assets    AssetConfig
}

// BuildAll runs every master-data generator in the fixed dependency order
// Accounts → Employees → Vendors → Customers → Materials → FixedAssets,
// appending each section to a fresh Registry and sealing it once all six
// have succeeded. stream must not yet have derived a "registry/*" label.
func BuildAll(cfg BuildConfig, stream *rng.Stream, namespace uuid.UUID) (*Registry, error) {
	reg := New()

	accountStream, err := stream.Split("registry/accounts")
	if err != nil {
		return nil, fmt.Errorf("registry: split accounts stream: %w", err)
	}
	accounts, err := GenerateAccounts(cfg.Accounts, accountStream)
	if err != nil {
		return nil, err
	}
	if err := reg.AddAccounts(accounts); err != nil {
		return nil, err
	}

	employeeStream, err := stream.Split("registry/employees")
	if err != nil {
		return nil, fmt.Errorf("registry: split employees stream: %w", err)
	}
	employees, err := GenerateEmployees(cfg.Employees, employeeStream, namespace)
	if err != nil {
		return nil, err
	}
	if err := reg.AddEmployees(employees); err != nil {
		return nil, err
	}

	vendorStream, err := stream.Split("registry/vendors")
	if err != nil {
		return nil, fmt.Errorf("registry: split vendors stream: %w", err)
	}
	vendors, err := GenerateVendors(cfg.Vendors, vendorStream, namespace)
	if err != nil {
		return nil, err
	}
	if err := reg.AddVendors(vendors); err != nil {
		return nil, err
	}

	customerStream, err := stream.Split("registry/customers")
	if err != nil {
		return nil, fmt.Errorf("registry: split customers stream: %w", err)
	}
	customers, err := GenerateCustomers(cfg.Customers, customerStream, namespace)
	if err != nil {
		return nil, err
	}
	if err := reg.AddCustomers(customers); err != nil {
		return nil, err
	}

	materialStream, err := stream.Split("registry/materials")
	if err != nil {
		return nil, fmt.Errorf("registry: split materials stream: %w", err)
	}
	materials, err := GenerateMaterials(cfg.Materials, materialStream, namespace)
	if err != nil {
		return nil, err
	}
	if err := reg.AddMaterials(materials); err != nil {
		return nil, err
	}

	assetStream, err := stream.Split("registry/assets")
	if err != nil {
		return nil, fmt.Errorf("registry: split assets stream: %w", err)
	}
	faControlCode := "1500"
	for _, a := range reg.accounts {
		if a.ControlFor == "FA" {
			faControlCode = a.Code
			break
		}
	}
	assets, err := GenerateAssets(cfg.Assets, assetStream, namespace, faControlCode)
	if err != nil {
		return nil, err
	}
	if err := reg.AddAssets(assets); err != nil {
		return nil, err
	}

	reg.Seal()
	return reg, nil
}
