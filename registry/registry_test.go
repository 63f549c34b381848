package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/rng"
)

func testNamespace() uuid.UUID { return id.Namespace(1) }

func TestBuildAllFixedOrderAndSeal(t *testing.T) {
	stream := rng.Root(1)
	ns := testNamespace()
	cfg := BuildConfig{
		Accounts:  AccountConfig{MinDepth: 1, MaxDepth: 3, AccountsPerLeg: 3},
		Employees: EmployeeConfig{Count: 10},
		Vendors:   VendorConfig{Count: 10},
		Customers: CustomerConfig{Count: 10},
		Materials: MaterialConfig{Count: 10},
		Assets:    AssetConfig{Count: 10},
	}
	reg, err := BuildAll(cfg, stream, ns)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if !reg.IsSealed() {
		t.Fatal("BuildAll did not seal the registry")
	}
	if len(reg.Accounts()) == 0 {
		t.Fatal("no accounts generated")
	}
	if len(reg.Employees()) != 10 {
		t.Fatalf("len(Employees()) = %d, want 10", len(reg.Employees()))
	}
}

func TestBuildAllIsDeterministic(t *testing.T) {
	cfg := BuildConfig{
		Accounts:  AccountConfig{MinDepth: 1, MaxDepth: 2, AccountsPerLeg: 2},
		Employees: EmployeeConfig{Count: 5},
		Vendors:   VendorConfig{Count: 5},
		Customers: CustomerConfig{Count: 5},
		Materials: MaterialConfig{Count: 5},
		Assets:    AssetConfig{Count: 5},
	}
	ns := testNamespace()

	reg1, err := BuildAll(cfg, rng.Root(99), ns)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	reg2, err := BuildAll(cfg, rng.Root(99), ns)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}

	if len(reg1.Vendors()) != len(reg2.Vendors()) {
		t.Fatal("vendor counts diverged")
	}
	for i := range reg1.Vendors() {
		v1, v2 := reg1.Vendors()[i], reg2.Vendors()[i]
		if v1.ID != v2.ID || v1.Tier != v2.Tier || v1.Country != v2.Country {
			t.Fatalf("vendor %d diverged between identical-seed runs: %+v vs %+v", i, v1, v2)
		}
	}
}

func TestAddAccountsDuplicateCodeIsError(t *testing.T) {
	reg := New()
	if err := reg.AddAccounts([]Account{{Code: "1000"}, {Code: "1000"}}); err == nil {
		t.Fatal("expected error for duplicate account code")
	}
}

func TestAddAfterSealPanics(t *testing.T) {
	reg := New()
	reg.Seal()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic appending after Seal")
		}
	}()
	_ = reg.AddAccounts([]Account{{Code: "1000"}})
}

func TestLookupBeforeSealPanics(t *testing.T) {
	reg := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic looking up before Seal")
		}
	}()
	reg.AccountByCode("1000")
}

func TestEmployeeByIDBinarySearch(t *testing.T) {
	stream := rng.Root(2)
	ns := testNamespace()
	employees, err := GenerateEmployees(EmployeeConfig{Count: 20}, stream, ns)
	if err != nil {
		t.Fatalf("GenerateEmployees: %v", err)
	}
	reg := New()
	if err := reg.AddEmployees(employees); err != nil {
		t.Fatalf("AddEmployees: %v", err)
	}
	reg.Seal()

	want := employees[5]
	got, ok := reg.EmployeeByID(want.ID)
	if !ok || got.ID != want.ID {
		t.Fatalf("EmployeeByID(%v) = %+v, %v", want.ID, got, ok)
	}
}
