/*
Package sqlite provides a SQLite-backed implementation of ledger.TxStore.

PURPOSE:
  Persists outlets, the inflow/outflow ledgers and reimbursement requests.
  In production the same schema runs on a hosted relational database (see
  store/gormdb); only minor SQL dialect differences apply.

APPEND-ONLY ENFORCEMENT:
  - No DELETE statements on inflows or outflows
  - No UPDATE of amount/date columns
  - Only outflows.status and outflows.reimbursement_id are ever updated

KEY TABLES:
  outlets:        Outlet master data incl. initial balance + date
  inflows:        Kas masuk (append-only)
  outflows:       Kas keluar (append-only, line items as JSON)
  reimbursements: Reimbursement requests and their decisions

DATES:
  Stored as TEXT "YYYY-MM-DD". Lexical order equals calendar order, so
  range predicates like date < ? work directly on the column and no
  timezone conversion ever touches a ledger date.

AMOUNTS:
  Stored as INTEGER rupiah so SUM() stays exact.

INDEXES:
  - idx_inflows_outlet_date:  residual queries (hot path)
  - idx_outflows_outlet_date: residual + breakdown queries (hot path)
  - idx_outflows_reimbursement: approval/rejection status flips

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, which is
  what SQLite wants anyway and keeps ":memory:" databases coherent.

USAGE:
  store, err := sqlite.New("./data/pettycash.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/pettycash/ledger"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS outlets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bank_name TEXT,
		bank_account TEXT,
		account_holder TEXT,
		initial_balance INTEGER NOT NULL DEFAULT 0,
		initial_balance_date TEXT,
		alert_threshold INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Kas masuk (append-only)
	CREATE TABLE IF NOT EXISTS inflows (
		id TEXT PRIMARY KEY,
		outlet_id TEXT NOT NULL REFERENCES outlets(id),
		date TEXT NOT NULL,
		amount INTEGER NOT NULL CHECK (amount > 0),
		note TEXT,
		reimbursement_id TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_inflows_outlet_date
		ON inflows(outlet_id, date);

	-- Kas keluar (append-only except status/link)
	CREATE TABLE IF NOT EXISTS outflows (
		id TEXT PRIMARY KEY,
		outlet_id TEXT NOT NULL REFERENCES outlets(id),
		date TEXT NOT NULL,
		amount INTEGER NOT NULL CHECK (amount > 0),
		note TEXT,
		line_items_json TEXT,
		status TEXT NOT NULL DEFAULT 'recorded',
		reimbursement_id TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_outflows_outlet_date
		ON outflows(outlet_id, date);
	CREATE INDEX IF NOT EXISTS idx_outflows_reimbursement
		ON outflows(reimbursement_id) WHERE reimbursement_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS reimbursements (
		id TEXT PRIMARY KEY,
		outlet_id TEXT NOT NULL REFERENCES outlets(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		requested_amount INTEGER NOT NULL,
		computed_amount INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT,
		submitted_by TEXT,
		decided_by TEXT,
		decided_at TEXT,
		rejection_reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reimbursements_status
		ON reimbursements(status);
	CREATE INDEX IF NOT EXISTS idx_reimbursements_outlet
		ON reimbursements(outlet_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes all data (dev/demo only).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().Reset(ctx)
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&conn{q: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// =============================================================================
// LOCKED ENTRY POINTS - Store methods lock, then delegate to conn
// =============================================================================

func (s *Store) pool() *conn { return &conn{q: s.db} }

func (s *Store) SaveOutlet(ctx context.Context, o ledger.Outlet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().SaveOutlet(ctx, o)
}

func (s *Store) GetOutlet(ctx context.Context, id ledger.OutletID) (*ledger.Outlet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().GetOutlet(ctx, id)
}

func (s *Store) ListOutlets(ctx context.Context) ([]ledger.Outlet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().ListOutlets(ctx)
}

func (s *Store) AppendInflow(ctx context.Context, in ledger.InflowEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().AppendInflow(ctx, in)
}

func (s *Store) AppendOutflow(ctx context.Context, out ledger.OutflowEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().AppendOutflow(ctx, out)
}

func (s *Store) LastInflowBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (*ledger.InflowEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().LastInflowBefore(ctx, outletID, before)
}

func (s *Store) SumInflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().SumInflowsBefore(ctx, outletID, before)
}

func (s *Store) SumOutflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().SumOutflowsBefore(ctx, outletID, before)
}

func (s *Store) InflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.InflowEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().InflowsInRange(ctx, outletID, from, to)
}

func (s *Store) OutflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.OutflowEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().OutflowsInRange(ctx, outletID, from, to)
}

func (s *Store) CreateReimbursement(ctx context.Context, r ledger.ReimbursementRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().CreateReimbursement(ctx, r)
}

func (s *Store) GetReimbursement(ctx context.Context, id ledger.ReimbursementID) (*ledger.ReimbursementRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().GetReimbursement(ctx, id)
}

func (s *Store) ListReimbursements(ctx context.Context, f ledger.ReimbursementFilter) ([]ledger.ReimbursementRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool().ListReimbursements(ctx, f)
}

func (s *Store) UpdateReimbursement(ctx context.Context, r ledger.ReimbursementRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().UpdateReimbursement(ctx, r)
}

func (s *Store) LinkOutflows(ctx context.Context, outletID ledger.OutletID, p ledger.Period, id ledger.ReimbursementID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().LinkOutflows(ctx, outletID, p, id)
}

func (s *Store) UpdateLinkedOutflows(ctx context.Context, id ledger.ReimbursementID, status ledger.OutflowStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool().UpdateLinkedOutflows(ctx, id, status)
}

// =============================================================================
// CONN - SQL against either the pool or an open transaction
// =============================================================================

type conn struct {
	q querier
}

// Reset deletes every row. Inside WithTx the delete is rolled back with
// the rest of the transaction.
func (c *conn) Reset(ctx context.Context) error {
	for _, table := range []string{"reimbursements", "outflows", "inflows", "outlets"} {
		if _, err := c.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// OUTLETS

func (c *conn) SaveOutlet(ctx context.Context, o ledger.Outlet) error {
	query := `
		INSERT INTO outlets
		(id, name, bank_name, bank_account, account_holder, initial_balance,
		 initial_balance_date, alert_threshold, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			bank_name = excluded.bank_name,
			bank_account = excluded.bank_account,
			account_holder = excluded.account_holder,
			initial_balance = excluded.initial_balance,
			initial_balance_date = excluded.initial_balance_date,
			alert_threshold = excluded.alert_threshold
	`

	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := c.q.ExecContext(ctx, query,
		o.ID, o.Name, o.BankName, o.BankAccount, o.AccountHolder,
		o.InitialBalance.Int64(),
		nullDate(o.InitialBalanceDate),
		o.AlertThreshold.Int64(),
		createdAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save outlet: %w", err)
	}
	return nil
}

const outletColumns = `id, name, bank_name, bank_account, account_holder, initial_balance,
	initial_balance_date, alert_threshold, created_at`

func (c *conn) GetOutlet(ctx context.Context, id ledger.OutletID) (*ledger.Outlet, error) {
	row := c.q.QueryRowContext(ctx, "SELECT "+outletColumns+" FROM outlets WHERE id = ?", id)
	o, err := scanOutlet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrOutletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *conn) ListOutlets(ctx context.Context) ([]ledger.Outlet, error) {
	rows, err := c.q.QueryContext(ctx, "SELECT "+outletColumns+" FROM outlets ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query outlets: %w", err)
	}
	defer rows.Close()

	var outlets []ledger.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, err
		}
		outlets = append(outlets, o)
	}
	return outlets, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOutlet(row scanner) (ledger.Outlet, error) {
	var (
		o                      ledger.Outlet
		bankName, bankAccount  sql.NullString
		holder, initialDate    sql.NullString
		initial, threshold     int64
		createdAt              string
	)
	err := row.Scan(&o.ID, &o.Name, &bankName, &bankAccount, &holder,
		&initial, &initialDate, &threshold, &createdAt)
	if err != nil {
		return o, err
	}
	o.BankName = bankName.String
	o.BankAccount = bankAccount.String
	o.AccountHolder = holder.String
	o.InitialBalance = ledger.NewMoney(initial)
	o.InitialBalanceDate = parseNullDate(initialDate)
	o.AlertThreshold = ledger.NewMoney(threshold)
	o.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	return o, nil
}

// INFLOWS

func (c *conn) AppendInflow(ctx context.Context, in ledger.InflowEvent) error {
	query := `
		INSERT INTO inflows (id, outlet_id, date, amount, note, reimbursement_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.q.ExecContext(ctx, query,
		in.ID, in.OutletID, in.Date.String(), in.Amount.Int64(), in.Note,
		nullString(string(in.ReimbursementID)), in.CreatedBy,
		createdAtOrNow(in.CreatedAt),
	)
	return insertErr("inflow", in.OutletID, err)
}

const inflowColumns = `id, outlet_id, date, amount, note, reimbursement_id, created_by, created_at`

func (c *conn) LastInflowBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (*ledger.InflowEvent, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+inflowColumns+` FROM inflows
		 WHERE outlet_id = ? AND date < ?
		 ORDER BY date DESC, created_at DESC, rowid DESC LIMIT 1`,
		outletID, before.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query last inflow: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	in, err := scanInflow(rows)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (c *conn) SumInflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	return c.sum(ctx, "SELECT COALESCE(SUM(amount), 0) FROM inflows WHERE outlet_id = ? AND date < ?",
		outletID, before.String())
}

func (c *conn) InflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.InflowEvent, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+inflowColumns+` FROM inflows
		 WHERE outlet_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, created_at ASC, rowid ASC`,
		outletID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query inflows: %w", err)
	}
	defer rows.Close()

	var result []ledger.InflowEvent
	for rows.Next() {
		in, err := scanInflow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, in)
	}
	return result, rows.Err()
}

func scanInflow(row scanner) (ledger.InflowEvent, error) {
	var (
		in                   ledger.InflowEvent
		date, createdAt      string
		amount               int64
		note, reimbID, actor sql.NullString
	)
	if err := row.Scan(&in.ID, &in.OutletID, &date, &amount, &note, &reimbID, &actor, &createdAt); err != nil {
		return in, fmt.Errorf("failed to scan inflow: %w", err)
	}
	in.Date, _ = ledger.ParseDate(date)
	in.Amount = ledger.NewMoney(amount)
	in.Note = note.String
	in.ReimbursementID = ledger.ReimbursementID(reimbID.String)
	in.CreatedBy = actor.String
	in.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	return in, nil
}

// OUTFLOWS

func (c *conn) AppendOutflow(ctx context.Context, out ledger.OutflowEvent) error {
	items, err := json.Marshal(out.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	status := out.Status
	if status == "" {
		status = ledger.OutflowRecorded
	}

	query := `
		INSERT INTO outflows
		(id, outlet_id, date, amount, note, line_items_json, status, reimbursement_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = c.q.ExecContext(ctx, query,
		out.ID, out.OutletID, out.Date.String(), out.Amount.Int64(), out.Note,
		string(items), status, nullString(string(out.ReimbursementID)), out.CreatedBy,
		createdAtOrNow(out.CreatedAt),
	)
	return insertErr("outflow", out.OutletID, err)
}

const outflowColumns = `id, outlet_id, date, amount, note, line_items_json, status,
	reimbursement_id, created_by, created_at`

func (c *conn) SumOutflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	return c.sum(ctx, "SELECT COALESCE(SUM(amount), 0) FROM outflows WHERE outlet_id = ? AND date < ?",
		outletID, before.String())
}

func (c *conn) OutflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.OutflowEvent, error) {
	rows, err := c.q.QueryContext(ctx,
		"SELECT "+outflowColumns+` FROM outflows
		 WHERE outlet_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, created_at ASC, rowid ASC`,
		outletID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query outflows: %w", err)
	}
	defer rows.Close()

	var result []ledger.OutflowEvent
	for rows.Next() {
		out, err := scanOutflow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, out)
	}
	return result, rows.Err()
}

func scanOutflow(row scanner) (ledger.OutflowEvent, error) {
	var (
		out                  ledger.OutflowEvent
		date, createdAt      string
		amount               int64
		note, items, reimbID sql.NullString
		actor                sql.NullString
	)
	err := row.Scan(&out.ID, &out.OutletID, &date, &amount, &note, &items,
		&out.Status, &reimbID, &actor, &createdAt)
	if err != nil {
		return out, fmt.Errorf("failed to scan outflow: %w", err)
	}
	out.Date, _ = ledger.ParseDate(date)
	out.Amount = ledger.NewMoney(amount)
	out.Note = note.String
	out.ReimbursementID = ledger.ReimbursementID(reimbID.String)
	out.CreatedBy = actor.String
	out.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	if items.Valid && items.String != "" && items.String != "null" {
		if err := json.Unmarshal([]byte(items.String), &out.LineItems); err != nil {
			return out, fmt.Errorf("failed to decode line items of %s: %w", out.ID, err)
		}
	}
	return out, nil
}

func (c *conn) LinkOutflows(ctx context.Context, outletID ledger.OutletID, p ledger.Period, id ledger.ReimbursementID) (int, error) {
	res, err := c.q.ExecContext(ctx, `
		UPDATE outflows SET status = ?, reimbursement_id = ?
		WHERE outlet_id = ? AND status = ? AND date >= ? AND date <= ?`,
		ledger.OutflowSubmitted, id, outletID, ledger.OutflowRecorded,
		p.Start.String(), p.End.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to link outflows: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (c *conn) UpdateLinkedOutflows(ctx context.Context, id ledger.ReimbursementID, status ledger.OutflowStatus) (int, error) {
	query := "UPDATE outflows SET status = ? WHERE reimbursement_id = ?"
	if status == ledger.OutflowRecorded {
		query = "UPDATE outflows SET status = ?, reimbursement_id = NULL WHERE reimbursement_id = ?"
	}
	res, err := c.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update linked outflows: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// REIMBURSEMENTS

func (c *conn) CreateReimbursement(ctx context.Context, r ledger.ReimbursementRequest) error {
	query := `
		INSERT INTO reimbursements
		(id, outlet_id, period_start, period_end, requested_amount, computed_amount,
		 status, notes, submitted_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.q.ExecContext(ctx, query,
		r.ID, r.OutletID, r.PeriodStart.String(), r.PeriodEnd.String(),
		r.RequestedAmount.Int64(), r.ComputedAmount.Int64(),
		r.Status, r.Notes, r.SubmittedBy, createdAtOrNow(r.CreatedAt),
	)
	return insertErr("reimbursement", r.OutletID, err)
}

const reimbursementColumns = `id, outlet_id, period_start, period_end, requested_amount,
	computed_amount, status, notes, submitted_by, decided_by, decided_at, rejection_reason, created_at`

func (c *conn) GetReimbursement(ctx context.Context, id ledger.ReimbursementID) (*ledger.ReimbursementRequest, error) {
	row := c.q.QueryRowContext(ctx, "SELECT "+reimbursementColumns+" FROM reimbursements WHERE id = ?", id)
	r, err := scanReimbursement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrReimbursementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *conn) ListReimbursements(ctx context.Context, f ledger.ReimbursementFilter) ([]ledger.ReimbursementRequest, error) {
	var (
		where []string
		args  []any
	)
	if f.OutletID != "" {
		where = append(where, "outlet_id = ?")
		args = append(args, f.OutletID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	query := "SELECT " + reimbursementColumns + " FROM reimbursements"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reimbursements: %w", err)
	}
	defer rows.Close()

	var result []ledger.ReimbursementRequest
	for rows.Next() {
		r, err := scanReimbursement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func scanReimbursement(row scanner) (ledger.ReimbursementRequest, error) {
	var (
		r                          ledger.ReimbursementRequest
		start, end, createdAt      string
		requested, computed        int64
		notes, submittedBy         sql.NullString
		decidedBy, decidedAt       sql.NullString
		rejection                  sql.NullString
	)
	err := row.Scan(&r.ID, &r.OutletID, &start, &end, &requested, &computed, &r.Status,
		&notes, &submittedBy, &decidedBy, &decidedAt, &rejection, &createdAt)
	if err != nil {
		return r, err
	}
	r.PeriodStart, _ = ledger.ParseDate(start)
	r.PeriodEnd, _ = ledger.ParseDate(end)
	r.RequestedAmount = ledger.NewMoney(requested)
	r.ComputedAmount = ledger.NewMoney(computed)
	r.Notes = notes.String
	r.SubmittedBy = submittedBy.String
	r.DecidedBy = decidedBy.String
	r.RejectionReason = rejection.String
	r.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	if decidedAt.Valid && decidedAt.String != "" {
		t, err := time.Parse(timestampLayout, decidedAt.String)
		if err == nil {
			r.DecidedAt = &t
		}
	}
	return r, nil
}

func (c *conn) UpdateReimbursement(ctx context.Context, r ledger.ReimbursementRequest) error {
	var decidedAt sql.NullString
	if r.DecidedAt != nil {
		decidedAt = sql.NullString{String: r.DecidedAt.UTC().Format(timestampLayout), Valid: true}
	}
	res, err := c.q.ExecContext(ctx, `
		UPDATE reimbursements
		SET status = ?, notes = ?, decided_by = ?, decided_at = ?, rejection_reason = ?
		WHERE id = ?`,
		r.Status, r.Notes, nullString(r.DecidedBy), decidedAt, nullString(r.RejectionReason), r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reimbursement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrReimbursementNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *conn) sum(ctx context.Context, query string, args ...any) (ledger.Money, error) {
	var total int64
	if err := c.q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return ledger.Money{}, fmt.Errorf("failed to sum: %w", err)
	}
	return ledger.NewMoney(total), nil
}

// insertErr maps constraint violations to ledger sentinels.
func insertErr(what string, outletID ledger.OutletID, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", what, ledger.ErrDuplicateID)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%s for outlet %s: %w", what, outletID, ledger.ErrOutletNotFound)
	}
	return fmt.Errorf("failed to insert %s: %w", what, err)
}

// timestampLayout is fixed-width so created_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d ledger.Date) sql.NullString {
	return nullString(d.String())
}

func parseNullDate(s sql.NullString) ledger.Date {
	if !s.Valid || s.String == "" {
		return ledger.Date{}
	}
	d, _ := ledger.ParseDate(s.String)
	return d
}

func createdAtOrNow(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}
