// Package sqlite implements sink.Sink on top of a SQLite file, using
// modernc.org/sqlite directly through database/sql rather than a private
// ORM wrapper.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/synthledger/core/anomaly"
	"github.com/synthledger/core/balance"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/sink"

	_ "modernc.org/sqlite"
)

var _ sink.Sink = (*Store)(nil)

// Store implements sink.Sink against a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and runs
// Migrate against it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sink/sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid lock contention
	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-open *sql.DB, for callers that manage the
// connection lifecycle themselves.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates every table this sink needs, if not already present.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sink/sqlite: migrate: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		code TEXT PRIMARY KEY, name TEXT, type INTEGER, normal_balance INTEGER,
		is_control INTEGER, control_for TEXT, parent TEXT, depth INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY, name TEXT, department TEXT, role TEXT,
		approval_limit TEXT, can_create INTEGER, can_approve INTEGER, manager_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS vendors (
		id TEXT PRIMARY KEY, name TEXT, country TEXT, tier INTEGER,
		payment_terms_days INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY, name TEXT, country TEXT, rating INTEGER,
		credit_limit TEXT, payment_terms_days INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS materials (
		id TEXT PRIMARY KEY, name TEXT, category INTEGER, unit_price TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS fixed_assets (
		id TEXT PRIMARY KEY, name TEXT, class INTEGER, depreciation_method INTEGER,
		acquisition_cost TEXT, salvage_value TEXT, useful_life_months INTEGER, account_code TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS journal_entries (
		doc_id TEXT PRIMARY KEY, company TEXT, fiscal_year INTEGER, fiscal_period INTEGER,
		posting_date TEXT, document_date TEXT, source INTEGER, business_process TEXT,
		created_by TEXT, approved_by TEXT, is_anomaly INTEGER, anomaly_id TEXT,
		three_way_match_tolerance INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS journal_lines (
		doc_id TEXT, line_no INTEGER, account TEXT, debit TEXT, credit TEXT,
		currency TEXT, description TEXT,
		PRIMARY KEY (doc_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS trial_balances (
		company TEXT, account TEXT, fiscal_year INTEGER, fiscal_period INTEGER,
		opening TEXT, period_debits TEXT, period_credits TEXT, closing TEXT,
		PRIMARY KEY (company, account, fiscal_year, fiscal_period)
	)`,
	`CREATE TABLE IF NOT EXISTS anomaly_labels (
		doc_id TEXT, anomaly_id TEXT PRIMARY KEY, category INTEGER, type INTEGER,
		severity INTEGER, pattern_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT, kind TEXT, company TEXT, counterparty TEXT, status TEXT, document_date TEXT,
		PRIMARY KEY (id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS document_lines (
		doc_id TEXT, line_no INTEGER, material TEXT, quantity REAL, unit_cost REAL,
		PRIMARY KEY (doc_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS document_references (
		from_doc TEXT, kind TEXT, to_doc TEXT,
		PRIMARY KEY (from_doc, kind, to_doc)
	)`,
	`CREATE TABLE IF NOT EXISTS sod_rules (
		name TEXT PRIMARY KEY, description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sod_conflicts (
		employee_id TEXT, rule TEXT, detail TEXT,
		PRIMARY KEY (employee_id, rule)
	)`,
	`CREATE TABLE IF NOT EXISTS internal_controls (
		name TEXT, account_code TEXT PRIMARY KEY, description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS control_account_mappings (
		account_code TEXT PRIMARY KEY, control_for TEXT, subledger_type TEXT
	)`,
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Flush is a no-op: every write already commits its own statement/transaction.
func (s *Store) Flush(_ context.Context) error { return nil }

func (s *Store) WriteAccounts(ctx context.Context, accounts []registry.Account) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO accounts
			(code, name, type, normal_balance, is_control, control_for, parent, depth)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range accounts {
			if _, err := stmt.ExecContext(ctx, a.Code, a.Name, int(a.Type), int(a.NormalBalance), a.IsControl, a.ControlFor, a.Parent, a.Depth); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteEmployees(ctx context.Context, employees []registry.Employee) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO employees
			(id, name, department, role, approval_limit, can_create, can_approve, manager_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range employees {
			if _, err := stmt.ExecContext(ctx, e.ID.String(), e.Name, e.Department, e.Role, e.ApprovalLimit.String(), e.CanCreate, e.CanApprove, e.ManagerID.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteVendors(ctx context.Context, vendors []registry.Vendor) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO vendors
			(id, name, country, tier, payment_terms_days) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, v := range vendors {
			if _, err := stmt.ExecContext(ctx, v.ID.String(), v.Name, v.Country, int(v.Tier), v.PaymentTermsDays); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteCustomers(ctx context.Context, customers []registry.Customer) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO customers
			(id, name, country, rating, credit_limit, payment_terms_days) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range customers {
			if _, err := stmt.ExecContext(ctx, c.ID.String(), c.Name, c.Country, int(c.Rating), c.CreditLimit.String(), c.PaymentTermsDays); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteMaterials(ctx context.Context, materials []registry.Material) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO materials
			(id, name, category, unit_price) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range materials {
			if _, err := stmt.ExecContext(ctx, m.ID.String(), m.Name, int(m.Category), m.UnitPrice.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteAssets(ctx context.Context, assets []registry.FixedAsset) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO fixed_assets
			(id, name, class, depreciation_method, acquisition_cost, salvage_value, useful_life_months, account_code)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range assets {
			if _, err := stmt.ExecContext(ctx, a.ID.String(), a.Name, int(a.Class), int(a.DepreciationMethod), a.AcquisitionCost.String(), a.SalvageValue.String(), a.UsefulLifeMonths, a.AccountCode); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDocuments persists docs under the given kind label, shared by the
// eight per-document-type Write methods below.
func (s *Store) writeDocuments(ctx context.Context, kind string, docs []*flow.Document) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		docStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO documents
			(id, kind, company, counterparty, status, document_date) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer docStmt.Close()

		lineStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO document_lines
			(doc_id, line_no, material, quantity, unit_cost) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer lineStmt.Close()

		for _, d := range docs {
			if _, err := docStmt.ExecContext(ctx, d.ID.String(), kind, d.Company, d.Counterparty.String(), d.Status, d.DocumentDate.Format(dateLayout)); err != nil {
				return err
			}
			for i, line := range d.Lines {
				if _, err := lineStmt.ExecContext(ctx, d.ID.String(), i, line.Material.String(), line.Quantity, line.UnitCost); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) WritePurchaseOrders(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "purchase_order", docs)
}

func (s *Store) WriteGoodsReceipts(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "goods_receipt", docs)
}

func (s *Store) WriteVendorInvoices(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "vendor_invoice", docs)
}

func (s *Store) WritePayments(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "payment", docs)
}

func (s *Store) WriteSalesOrders(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "sales_order", docs)
}

func (s *Store) WriteDeliveries(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "delivery", docs)
}

func (s *Store) WriteCustomerInvoices(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "customer_invoice", docs)
}

func (s *Store) WriteReceipts(ctx context.Context, docs []*flow.Document) error {
	return s.writeDocuments(ctx, "receipt", docs)
}

func (s *Store) WriteDocumentReferences(ctx context.Context, refs []flow.DocumentReference) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO document_references
			(from_doc, kind, to_doc) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range refs {
			if _, err := stmt.ExecContext(ctx, r.From.String(), r.Kind.String(), r.To.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteSoDRules(ctx context.Context, rules []registry.SoDRule) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO sod_rules (name, description) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rules {
			if _, err := stmt.ExecContext(ctx, r.Name, r.Description); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteSoDConflicts(ctx context.Context, conflicts []registry.SoDConflict) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO sod_conflicts
			(employee_id, rule, detail) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range conflicts {
			if _, err := stmt.ExecContext(ctx, c.EmployeeID.String(), c.Rule, c.Detail); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteInternalControls(ctx context.Context, controls []registry.InternalControl) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO internal_controls
			(name, account_code, description) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range controls {
			if _, err := stmt.ExecContext(ctx, c.Name, c.AccountCode, c.Description); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteControlAccountMappings(ctx context.Context, mappings []registry.ControlAccountMapping) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO control_account_mappings
			(account_code, control_for, subledger_type) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range mappings {
			if _, err := stmt.ExecContext(ctx, m.AccountCode, m.ControlFor, m.SubledgerType); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteEntries(ctx context.Context, entries []*journal.Entry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		headerStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO journal_entries
			(doc_id, company, fiscal_year, fiscal_period, posting_date, document_date, source,
			 business_process, created_by, approved_by, is_anomaly, anomaly_id, three_way_match_tolerance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer headerStmt.Close()

		lineStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO journal_lines
			(doc_id, line_no, account, debit, credit, currency, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer lineStmt.Close()

		for _, e := range entries {
			if _, err := headerStmt.ExecContext(ctx, e.DocID.String(), e.Company, e.FiscalYear, e.FiscalPeriod,
				e.PostingDate.Format(dateLayout), e.DocumentDate.Format(dateLayout), int(e.Source),
				e.BusinessProcess, e.CreatedBy.String(), e.ApprovedBy.String(), e.IsAnomaly, e.AnomalyID.String(), e.ThreeWayMatchTolerance); err != nil {
				return err
			}
			for i, line := range e.Lines {
				if _, err := lineStmt.ExecContext(ctx, e.DocID.String(), i, line.Account, line.Debit.String(), line.Credit.String(), line.Currency, line.Description); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) WriteTrialBalance(ctx context.Context, tb balance.TrialBalance) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO trial_balances
			(company, account, fiscal_year, fiscal_period, opening, period_debits, period_credits, closing)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, line := range tb.Lines {
			if _, err := stmt.ExecContext(ctx, line.Key.Company, line.Key.Account, tb.Period.FiscalYear, tb.Period.FiscalPeriod,
				line.Opening.String(), line.PeriodDebits.String(), line.PeriodCredits.String(), line.Closing.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) WriteAnomalyLabels(ctx context.Context, labels []anomaly.Label) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO anomaly_labels
			(doc_id, anomaly_id, category, type, severity, pattern_id) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, l := range labels {
			if _, err := stmt.ExecContext(ctx, l.DocID, l.AnomalyID, int(l.Category), int(l.Type), int(l.Severity), l.PatternID); err != nil {
				return err
			}
		}
		return nil
	})
}

const dateLayout = "2006-01-02T15:04:05Z07:00"

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
