// Package registry implements the entity registry and master-data
// generators (C4): Chart of Accounts, Employees, Vendors, Customers,
// Materials, and FixedAssets, produced in that fixed dependency order and
// then sealed into read-only, concurrency-safe lookup views.
package registry

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/synthledger/core/id"
)

// Registry holds every generated master-data record for a run. It is
// append-only while being built (BuildAll), then Seal freezes it into
// O(1)-by-ID and O(log n)-by-secondary-index read views, matching spec's
// "Ownership" rule: master data is produced once, then shared read-only.
type Registry struct {
	sealed atomic.Bool

	accounts  []Account
	employees []Employee
	vendors   []Vendor
	customers []Customer
	materials []Material
	assets    []FixedAsset

	byID map[id.ID]any

	accountsByCode    map[string]*Account
	vendorsByCountry  map[string][]*Vendor
	customersByRating map[CustomerRating][]*Customer
}

// New returns an empty, unsealed Registry.
func New() *Registry {
	return &Registry{byID: make(map[id.ID]any)}
}

// mustNotBeSealed panics on programmer error: appending after Seal
// indicates a generator was invoked out of order.
func (r *Registry) mustNotBeSealed() {
	if r.sealed.Load() {
		panic(ErrSealed)
	}
}

// AddAccounts appends CoA entries, checking for duplicate codes.
func (r *Registry) AddAccounts(accounts []Account) error {
	r.mustNotBeSealed()
	seen := make(map[string]struct{}, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		if _, dup := seen[a.Code]; dup {
			return fmt.Errorf("registry: duplicate account code %q: %w", a.Code, ErrDuplicateID)
		}
		seen[a.Code] = struct{}{}
	}
	r.accounts = append(r.accounts, accounts...)
	return nil
}

// AddEmployees appends employee records, checking for duplicate IDs.
func (r *Registry) AddEmployees(employees []Employee) error {
	r.mustNotBeSealed()
	for _, e := range employees {
		if _, dup := r.byID[e.ID]; dup {
			return fmt.Errorf("registry: duplicate employee id %s: %w", e.ID, ErrDuplicateID)
		}
		r.byID[e.ID] = e
	}
	r.employees = append(r.employees, employees...)
	return nil
}

// AddVendors appends vendor records, checking for duplicate IDs.
func (r *Registry) AddVendors(vendors []Vendor) error {
	r.mustNotBeSealed()
	for _, v := range vendors {
		if _, dup := r.byID[v.ID]; dup {
			return fmt.Errorf("registry: duplicate vendor id %s: %w", v.ID, ErrDuplicateID)
		}
		r.byID[v.ID] = v
	}
	r.vendors = append(r.vendors, vendors...)
	return nil
}

// AddCustomers appends customer records, checking for duplicate IDs.
func (r *Registry) AddCustomers(customers []Customer) error {
	r.mustNotBeSealed()
	for _, c := range customers {
		if _, dup := r.byID[c.ID]; dup {
			return fmt.Errorf("registry: duplicate customer id %s: %w", c.ID, ErrDuplicateID)
		}
		r.byID[c.ID] = c
	}
	r.customers = append(r.customers, customers...)
	return nil
}

// AddMaterials appends material records, checking for duplicate IDs.
func (r *Registry) AddMaterials(materials []Material) error {
	r.mustNotBeSealed()
	for _, m := range materials {
		if _, dup := r.byID[m.ID]; dup {
			return fmt.Errorf("registry: duplicate material id %s: %w", m.ID, ErrDuplicateID)
		}
		r.byID[m.ID] = m
	}
	r.materials = append(r.materials, materials...)
	return nil
}

// AddAssets appends fixed-asset records, checking for duplicate IDs.
func (r *Registry) AddAssets(assets []FixedAsset) error {
	r.mustNotBeSealed()
	for _, a := range assets {
		if _, dup := r.byID[a.ID]; dup {
			return fmt.Errorf("registry: duplicate asset id %s: %w", a.ID, ErrDuplicateID)
		}
		r.byID[a.ID] = a
	}
	r.assets = append(r.assets, assets...)
	return nil
}

// Seal sorts every section by ID for deterministic output order and builds
// the secondary indexes. After Seal, Add* methods panic and lookups become
// available.
func (r *Registry) Seal() {
	if r.sealed.Swap(true) {
		return
	}

	sort.Slice(r.accounts, func(i, j int) bool { return r.accounts[i].Code < r.accounts[j].Code })
	sort.Slice(r.employees, func(i, j int) bool { return r.employees[i].ID.String() < r.employees[j].ID.String() })
	sort.Slice(r.vendors, func(i, j int) bool { return r.vendors[i].ID.String() < r.vendors[j].ID.String() })
	sort.Slice(r.customers, func(i, j int) bool { return r.customers[i].ID.String() < r.customers[j].ID.String() })
	sort.Slice(r.materials, func(i, j int) bool { return r.materials[i].ID.String() < r.materials[j].ID.String() })
	sort.Slice(r.assets, func(i, j int) bool { return r.assets[i].ID.String() < r.assets[j].ID.String() })

	r.accountsByCode = make(map[string]*Account, len(r.accounts))
	for i := range r.accounts {
		r.accountsByCode[r.accounts[i].Code] = &r.accounts[i]
	}

	r.vendorsByCountry = make(map[string][]*Vendor)
	for i := range r.vendors {
		v := &r.vendors[i]
		r.vendorsByCountry[v.Country] = append(r.vendorsByCountry[v.Country], v)
	}

	r.customersByRating = make(map[CustomerRating][]*Customer)
	for i := range r.customers {
		c := &r.customers[i]
		r.customersByRating[c.Rating] = append(r.customersByRating[c.Rating], c)
	}
}

// IsSealed reports whether Seal has run.
func (r *Registry) IsSealed() bool { return r.sealed.Load() }

// Len returns the total number of master-data records across every entity
// kind, for coarse-grained metrics reporting.
func (r *Registry) Len() int {
	return len(r.accounts) + len(r.employees) + len(r.vendors) + len(r.customers) + len(r.materials) + len(r.assets)
}

// Accounts returns the sealed, sorted chart of accounts.
func (r *Registry) Accounts() []Account { return r.accounts }

// Employees returns the sealed, sorted employee roster.
func (r *Registry) Employees() []Employee { return r.employees }

// Vendors returns the sealed, sorted vendor master.
func (r *Registry) Vendors() []Vendor { return r.vendors }

// Customers returns the sealed, sorted customer master.
func (r *Registry) Customers() []Customer { return r.customers }

// Materials returns the sealed, sorted material master.
func (r *Registry) Materials() []Material { return r.materials }

// Assets returns the sealed, sorted fixed-asset register.
func (r *Registry) Assets() []FixedAsset { return r.assets }

// AccountByCode is an O(1) lookup by account code.
func (r *Registry) AccountByCode(code string) (Account, bool) {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	a, ok := r.accountsByCode[code]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// VendorsByCountry is an O(1) secondary-index lookup (the underlying slice
// is built once at Seal, so this is effectively O(1) after that one-time
// O(n log n) sort).
func (r *Registry) VendorsByCountry(country string) []*Vendor {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	return r.vendorsByCountry[country]
}

// CustomersByRating is an O(1) secondary-index lookup by rating.
func (r *Registry) CustomersByRating(rating CustomerRating) []*Customer {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	return r.customersByRating[rating]
}

// EmployeeByID looks up an employee by ID in O(log n) via binary search
// over the sealed, sorted slice — matching spec's "O(log n) by secondary
// index" contract for lookups that are not the primary by-code index.
func (r *Registry) EmployeeByID(id id.ID) (Employee, bool) {
	if !r.sealed.Load() {
		panic(ErrNotSealed)
	}
	idStr := id.String()
	i := sort.Search(len(r.employees), func(i int) bool { return r.employees[i].ID.String() >= idStr })
	if i < len(r.employees) && r.employees[i].ID.String() == idStr {
		return r.employees[i], true
	}
	return Employee{}, false
}
