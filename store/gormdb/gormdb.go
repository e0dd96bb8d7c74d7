/*
Package gormdb provides a MySQL-backed ledger.TxStore built on gorm.

PURPOSE:
  Hosted deployments keep the ledger in a managed relational database
  instead of an embedded SQLite file. This package maps the same four
  tables (outlets, inflows, outflows, reimbursements) through gorm so the
  reconciler runs unchanged against either backend.

SCHEMA NOTES:
  - Ledger dates are CHAR(10) "YYYY-MM-DD", never DATE/DATETIME: the
    driver would otherwise hand back time.Time values in the connection's
    location and reintroduce off-by-one-day bugs.
  - Amounts are BIGINT rupiah.
  - AutoMigrate creates tables and indexes on Open.

DSN:
  user:pass@tcp(host:3306)/pettycash?parseTime=true&charset=utf8mb4

SEE ALSO:
  - store/sqlite/sqlite.go: Embedded implementation with the same semantics
  - config/config.go: DB_DRIVER / DB_DSN selection
*/
package gormdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/warp/pettycash/ledger"
)

// MySQL error numbers mapped to ledger sentinels.
const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

// =============================================================================
// MODELS
// =============================================================================

type outletRow struct {
	ID                 string  `gorm:"primaryKey;size:64"`
	Name               string  `gorm:"size:255;not null;index"`
	BankName           string  `gorm:"size:128"`
	BankAccount        string  `gorm:"size:64"`
	AccountHolder      string  `gorm:"size:255"`
	InitialBalance     int64   `gorm:"not null;default:0"`
	InitialBalanceDate *string `gorm:"type:char(10)"`
	AlertThreshold     int64   `gorm:"not null;default:0"`
	CreatedAt          time.Time
}

func (outletRow) TableName() string { return "outlets" }

type inflowRow struct {
	ID              string     `gorm:"primaryKey;size:64"`
	OutletID        string     `gorm:"size:64;not null;index:idx_inflows_outlet_date,priority:1"`
	Outlet          *outletRow `gorm:"foreignKey:OutletID"`
	Date            string     `gorm:"type:char(10);not null;index:idx_inflows_outlet_date,priority:2"`
	Amount          int64      `gorm:"not null"`
	Note            string     `gorm:"size:512"`
	ReimbursementID *string    `gorm:"size:64"`
	CreatedBy       string     `gorm:"size:128"`
	CreatedAt       time.Time
}

func (inflowRow) TableName() string { return "inflows" }

type outflowRow struct {
	ID              string     `gorm:"primaryKey;size:64"`
	OutletID        string     `gorm:"size:64;not null;index:idx_outflows_outlet_date,priority:1"`
	Outlet          *outletRow `gorm:"foreignKey:OutletID"`
	Date            string     `gorm:"type:char(10);not null;index:idx_outflows_outlet_date,priority:2"`
	Amount          int64      `gorm:"not null"`
	Note            string     `gorm:"size:512"`
	LineItemsJSON   string     `gorm:"type:text"`
	Status          string     `gorm:"size:16;not null;default:recorded"`
	ReimbursementID *string    `gorm:"size:64;index"`
	CreatedBy       string     `gorm:"size:128"`
	CreatedAt       time.Time
}

func (outflowRow) TableName() string { return "outflows" }

type reimbursementRow struct {
	ID              string     `gorm:"primaryKey;size:64"`
	OutletID        string     `gorm:"size:64;not null;index"`
	Outlet          *outletRow `gorm:"foreignKey:OutletID"`
	PeriodStart     string     `gorm:"type:char(10);not null"`
	PeriodEnd       string     `gorm:"type:char(10);not null"`
	RequestedAmount int64      `gorm:"not null"`
	ComputedAmount  int64      `gorm:"not null"`
	Status          string     `gorm:"size:16;not null;index"`
	Notes           string     `gorm:"type:text"`
	SubmittedBy     string     `gorm:"size:128"`
	DecidedBy       string     `gorm:"size:128"`
	DecidedAt       *time.Time
	RejectionReason string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (reimbursementRow) TableName() string { return "reimbursements" }

// =============================================================================
// STORE
// =============================================================================

// Store implements ledger.TxStore on top of a *gorm.DB.
type Store struct {
	db *gorm.DB
}

// Open connects to MySQL and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&outletRow{}, &inflowRow{}, &outflowRow{}, &reimbursementRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn inside a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Reset deletes all data (dev/demo only).
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&reimbursementRow{}, &outflowRow{}, &inflowRow{}, &outletRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// OUTLETS
// =============================================================================

func (s *Store) SaveOutlet(ctx context.Context, o ledger.Outlet) error {
	row := outletRow{
		ID:                 string(o.ID),
		Name:               o.Name,
		BankName:           o.BankName,
		BankAccount:        o.BankAccount,
		AccountHolder:      o.AccountHolder,
		InitialBalance:     o.InitialBalance.Int64(),
		InitialBalanceDate: datePtr(o.InitialBalanceDate),
		AlertThreshold:     o.AlertThreshold.Int64(),
		CreatedAt:          o.CreatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "bank_name", "bank_account", "account_holder",
			"initial_balance", "initial_balance_date", "alert_threshold",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save outlet: %w", err)
	}
	return nil
}

func (s *Store) GetOutlet(ctx context.Context, id ledger.OutletID) (*ledger.Outlet, error) {
	var row outletRow
	err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrOutletNotFound
	}
	if err != nil {
		return nil, err
	}
	o := row.toOutlet()
	return &o, nil
}

func (s *Store) ListOutlets(ctx context.Context) ([]ledger.Outlet, error) {
	var rows []outletRow
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	outlets := make([]ledger.Outlet, len(rows))
	for i, r := range rows {
		outlets[i] = r.toOutlet()
	}
	return outlets, nil
}

func (r outletRow) toOutlet() ledger.Outlet {
	return ledger.Outlet{
		ID:                 ledger.OutletID(r.ID),
		Name:               r.Name,
		BankName:           r.BankName,
		BankAccount:        r.BankAccount,
		AccountHolder:      r.AccountHolder,
		InitialBalance:     ledger.NewMoney(r.InitialBalance),
		InitialBalanceDate: parseDatePtr(r.InitialBalanceDate),
		AlertThreshold:     ledger.NewMoney(r.AlertThreshold),
		CreatedAt:          r.CreatedAt,
	}
}

// =============================================================================
// INFLOWS
// =============================================================================

func (s *Store) AppendInflow(ctx context.Context, in ledger.InflowEvent) error {
	row := inflowRow{
		ID:              string(in.ID),
		OutletID:        string(in.OutletID),
		Date:            in.Date.String(),
		Amount:          in.Amount.Int64(),
		Note:            in.Note,
		ReimbursementID: strPtr(string(in.ReimbursementID)),
		CreatedBy:       in.CreatedBy,
		CreatedAt:       in.CreatedAt,
	}
	return insertErr("inflow", in.OutletID, s.db.WithContext(ctx).Omit("Outlet").Create(&row).Error)
}

func (s *Store) LastInflowBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (*ledger.InflowEvent, error) {
	var row inflowRow
	err := s.db.WithContext(ctx).
		Where("outlet_id = ? AND date < ?", string(outletID), before.String()).
		Order("date DESC").Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	in := row.toInflow()
	return &in, nil
}

func (s *Store) SumInflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	return s.sumBefore(ctx, &inflowRow{}, outletID, before)
}

func (s *Store) InflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.InflowEvent, error) {
	var rows []inflowRow
	err := s.db.WithContext(ctx).
		Where("outlet_id = ? AND date >= ? AND date <= ?", string(outletID), from.String(), to.String()).
		Order("date ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]ledger.InflowEvent, len(rows))
	for i, r := range rows {
		result[i] = r.toInflow()
	}
	return result, nil
}

func (r inflowRow) toInflow() ledger.InflowEvent {
	d, _ := ledger.ParseDate(r.Date)
	return ledger.InflowEvent{
		ID:              ledger.EventID(r.ID),
		OutletID:        ledger.OutletID(r.OutletID),
		Date:            d,
		Amount:          ledger.NewMoney(r.Amount),
		Note:            r.Note,
		ReimbursementID: ledger.ReimbursementID(deref(r.ReimbursementID)),
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
	}
}

// =============================================================================
// OUTFLOWS
// =============================================================================

func (s *Store) AppendOutflow(ctx context.Context, out ledger.OutflowEvent) error {
	items, err := json.Marshal(out.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	status := out.Status
	if status == "" {
		status = ledger.OutflowRecorded
	}
	row := outflowRow{
		ID:              string(out.ID),
		OutletID:        string(out.OutletID),
		Date:            out.Date.String(),
		Amount:          out.Amount.Int64(),
		Note:            out.Note,
		LineItemsJSON:   string(items),
		Status:          string(status),
		ReimbursementID: strPtr(string(out.ReimbursementID)),
		CreatedBy:       out.CreatedBy,
		CreatedAt:       out.CreatedAt,
	}
	return insertErr("outflow", out.OutletID, s.db.WithContext(ctx).Omit("Outlet").Create(&row).Error)
}

func (s *Store) SumOutflowsBefore(ctx context.Context, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	return s.sumBefore(ctx, &outflowRow{}, outletID, before)
}

func (s *Store) OutflowsInRange(ctx context.Context, outletID ledger.OutletID, from, to ledger.Date) ([]ledger.OutflowEvent, error) {
	var rows []outflowRow
	err := s.db.WithContext(ctx).
		Where("outlet_id = ? AND date >= ? AND date <= ?", string(outletID), from.String(), to.String()).
		Order("date ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]ledger.OutflowEvent, 0, len(rows))
	for _, r := range rows {
		out, err := r.toOutflow()
		if err != nil {
			return nil, err
		}
		result = append(result, out)
	}
	return result, nil
}

func (s *Store) LinkOutflows(ctx context.Context, outletID ledger.OutletID, p ledger.Period, id ledger.ReimbursementID) (int, error) {
	res := s.db.WithContext(ctx).Model(&outflowRow{}).
		Where("outlet_id = ? AND status = ? AND date >= ? AND date <= ?",
			string(outletID), string(ledger.OutflowRecorded), p.Start.String(), p.End.String()).
		Updates(map[string]any{
			"status":           string(ledger.OutflowSubmitted),
			"reimbursement_id": string(id),
		})
	return int(res.RowsAffected), res.Error
}

func (s *Store) UpdateLinkedOutflows(ctx context.Context, id ledger.ReimbursementID, status ledger.OutflowStatus) (int, error) {
	updates := map[string]any{"status": string(status)}
	if status == ledger.OutflowRecorded {
		updates["reimbursement_id"] = nil
	}
	res := s.db.WithContext(ctx).Model(&outflowRow{}).
		Where("reimbursement_id = ?", string(id)).
		Updates(updates)
	return int(res.RowsAffected), res.Error
}

func (r outflowRow) toOutflow() (ledger.OutflowEvent, error) {
	d, _ := ledger.ParseDate(r.Date)
	out := ledger.OutflowEvent{
		ID:              ledger.EventID(r.ID),
		OutletID:        ledger.OutletID(r.OutletID),
		Date:            d,
		Amount:          ledger.NewMoney(r.Amount),
		Note:            r.Note,
		Status:          ledger.OutflowStatus(r.Status),
		ReimbursementID: ledger.ReimbursementID(deref(r.ReimbursementID)),
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
	}
	if r.LineItemsJSON != "" && r.LineItemsJSON != "null" {
		if err := json.Unmarshal([]byte(r.LineItemsJSON), &out.LineItems); err != nil {
			return out, fmt.Errorf("failed to decode line items of %s: %w", r.ID, err)
		}
	}
	return out, nil
}

// =============================================================================
// REIMBURSEMENTS
// =============================================================================

func (s *Store) CreateReimbursement(ctx context.Context, req ledger.ReimbursementRequest) error {
	row := reimbursementRow{
		ID:              string(req.ID),
		OutletID:        string(req.OutletID),
		PeriodStart:     req.PeriodStart.String(),
		PeriodEnd:       req.PeriodEnd.String(),
		RequestedAmount: req.RequestedAmount.Int64(),
		ComputedAmount:  req.ComputedAmount.Int64(),
		Status:          string(req.Status),
		Notes:           req.Notes,
		SubmittedBy:     req.SubmittedBy,
		CreatedAt:       req.CreatedAt,
	}
	return insertErr("reimbursement", req.OutletID, s.db.WithContext(ctx).Omit("Outlet").Create(&row).Error)
}

func (s *Store) GetReimbursement(ctx context.Context, id ledger.ReimbursementID) (*ledger.ReimbursementRequest, error) {
	var row reimbursementRow
	err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrReimbursementNotFound
	}
	if err != nil {
		return nil, err
	}
	r := row.toRequest()
	return &r, nil
}

func (s *Store) ListReimbursements(ctx context.Context, f ledger.ReimbursementFilter) ([]ledger.ReimbursementRequest, error) {
	q := s.db.WithContext(ctx).Model(&reimbursementRow{})
	if f.OutletID != "" {
		q = q.Where("outlet_id = ?", string(f.OutletID))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	var rows []reimbursementRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]ledger.ReimbursementRequest, len(rows))
	for i, r := range rows {
		result[i] = r.toRequest()
	}
	return result, nil
}

func (s *Store) UpdateReimbursement(ctx context.Context, req ledger.ReimbursementRequest) error {
	res := s.db.WithContext(ctx).Model(&reimbursementRow{}).
		Where("id = ?", string(req.ID)).
		Updates(map[string]any{
			"status":           string(req.Status),
			"notes":            req.Notes,
			"decided_by":       req.DecidedBy,
			"decided_at":       req.DecidedAt,
			"rejection_reason": req.RejectionReason,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update reimbursement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ledger.ErrReimbursementNotFound
	}
	return nil
}

func (r reimbursementRow) toRequest() ledger.ReimbursementRequest {
	start, _ := ledger.ParseDate(r.PeriodStart)
	end, _ := ledger.ParseDate(r.PeriodEnd)
	return ledger.ReimbursementRequest{
		ID:              ledger.ReimbursementID(r.ID),
		OutletID:        ledger.OutletID(r.OutletID),
		PeriodStart:     start,
		PeriodEnd:       end,
		RequestedAmount: ledger.NewMoney(r.RequestedAmount),
		ComputedAmount:  ledger.NewMoney(r.ComputedAmount),
		Status:          ledger.ReimbursementStatus(r.Status),
		Notes:           r.Notes,
		SubmittedBy:     r.SubmittedBy,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) sumBefore(ctx context.Context, model any, outletID ledger.OutletID, before ledger.Date) (ledger.Money, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(model).
		Select("COALESCE(SUM(amount), 0)").
		Where("outlet_id = ? AND date < ?", string(outletID), before.String()).
		Scan(&total).Error
	if err != nil {
		return ledger.Money{}, err
	}
	return ledger.NewMoney(total), nil
}

func insertErr(what string, outletID ledger.OutletID, err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			return fmt.Errorf("%s: %w", what, ledger.ErrDuplicateID)
		case errNoReferencedRow:
			return fmt.Errorf("%s for outlet %s: %w", what, outletID, ledger.ErrOutletNotFound)
		}
	}
	return fmt.Errorf("failed to insert %s: %w", what, err)
}

func datePtr(d ledger.Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func parseDatePtr(s *string) ledger.Date {
	if s == nil || *s == "" {
		return ledger.Date{}
	}
	d, _ := ledger.ParseDate(*s)
	return d
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
