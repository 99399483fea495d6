package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finch/internal/core"
)

// ErrNotFound is returned when a requested income source does not exist.
var ErrNotFound = errors.New("income source not found")

const incomeColumns = `id, name, kind, frequency, annual_amount, pay_date, next_payment_date, monthly_totals`

func (r *SQLiteRepository) scanIncomeSource(ctx context.Context, row interface {
	Scan(dest ...any) error
}) (core.IncomeSource, error) {
	var (
		s         core.IncomeSource
		payDate   sql.NullString
		nextDate  sql.NullString
		totalsRaw string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Kind, &s.Frequency, &s.AnnualAmount,
		&payDate, &nextDate, &totalsRaw); err != nil {
		return core.IncomeSource{}, err
	}
	s.PayDate = parseTime(payDate)
	s.NextPaymentDate = parseTime(nextDate)

	totals, err := core.ParseMonthlyTotals(totalsRaw)
	if err != nil {
		// Corrupt blobs never propagate; the source keeps going with a
		// fresh structure.
		slog.WarnContext(ctx, "Corrupt monthly totals blob, starting empty",
			"source_id", s.ID, "error", err)
	}
	s.Totals = totals
	return s, nil
}

// GetIncomeSource loads one source with its deductions.
func (r *SQLiteRepository) GetIncomeSource(ctx context.Context, id int64) (core.IncomeSource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+incomeColumns+` FROM income WHERE id = ?`, id)
	s, err := r.scanIncomeSource(ctx, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.IncomeSource{}, ErrNotFound
		}
		return core.IncomeSource{}, fmt.Errorf("get income source: %w", err)
	}

	deductions, err := r.listDeductions(ctx, s.ID)
	if err != nil {
		return core.IncomeSource{}, err
	}
	s.Deductions = deductions
	return s, nil
}

// ListIncomeSources loads all sources with their deductions.
func (r *SQLiteRepository) ListIncomeSources(ctx context.Context) ([]core.IncomeSource, error) {
	return r.listIncome(ctx, `SELECT `+incomeColumns+` FROM income ORDER BY name ASC`)
}

// ListDueIncomeSources returns sources whose next payment date has elapsed.
// The comparison is textual; stored timestamps share one fixed-width UTC
// layout, so lexicographic order matches chronological order.
func (r *SQLiteRepository) ListDueIncomeSources(ctx context.Context, now time.Time) ([]core.IncomeSource, error) {
	return r.listIncome(ctx,
		`SELECT `+incomeColumns+` FROM income
		 WHERE next_payment_date IS NOT NULL AND next_payment_date <= ?`,
		now.UTC().Format(core.TimeLayout))
}

func (r *SQLiteRepository) listIncome(ctx context.Context, query string, args ...any) ([]core.IncomeSource, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list income sources: %w", err)
	}
	defer rows.Close()

	var sources []core.IncomeSource
	for rows.Next() {
		s, err := r.scanIncomeSource(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("scan income source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sources {
		deductions, err := r.listDeductions(ctx, sources[i].ID)
		if err != nil {
			return nil, err
		}
		sources[i].Deductions = deductions
	}
	return sources, nil
}

func (r *SQLiteRepository) listDeductions(ctx context.Context, sourceID int64) ([]core.DeductionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_id, name, kind, format, value, frequency
		 FROM income_deductions WHERE source_id = ? ORDER BY id ASC`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []core.DeductionItem
	for rows.Next() {
		var d core.DeductionItem
		if err := rows.Scan(&d.ID, &d.SourceID, &d.Name, &d.Kind, &d.Format, &d.Value, &d.Frequency); err != nil {
			return nil, fmt.Errorf("scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

// CreateIncomeSource inserts the source and its deduction list in one
// transaction and returns the new id.
func (r *SQLiteRepository) CreateIncomeSource(ctx context.Context, s core.IncomeSource) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	totalsRaw, err := s.Totals.Encode()
	if err != nil {
		return 0, fmt.Errorf("encode totals: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO income (name, kind, frequency, annual_amount, pay_date, next_payment_date, monthly_totals)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Kind, s.Frequency, s.AnnualAmount,
		formatTime(s.PayDate), formatTime(s.NextPaymentDate), totalsRaw)
	if err != nil {
		return 0, fmt.Errorf("create income source: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}

	if err := insertDeductions(ctx, tx, id, s.Deductions); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit income source: %w", err)
	}

	slog.InfoContext(ctx, "Income source saved",
		"id", id, "name", s.Name, "frequency", s.Frequency, "deductions", len(s.Deductions))
	return id, nil
}

// UpdateIncomeSource rewrites the source row and replaces its deduction list
// wholesale (delete-all-then-insert-all; there is no partial merge).
func (r *SQLiteRepository) UpdateIncomeSource(ctx context.Context, s core.IncomeSource) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE income
		 SET name = ?, kind = ?, frequency = ?, annual_amount = ?, pay_date = ?, next_payment_date = ?
		 WHERE id = ?`,
		s.Name, s.Kind, s.Frequency, s.AnnualAmount,
		formatTime(s.PayDate), formatTime(s.NextPaymentDate), s.ID)
	if err != nil {
		return fmt.Errorf("update income source: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM income_deductions WHERE source_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clear deductions: %w", err)
	}
	if err := insertDeductions(ctx, tx, s.ID, s.Deductions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit income update: %w", err)
	}
	return nil
}

func insertDeductions(ctx context.Context, tx *sql.Tx, sourceID int64, deductions []core.DeductionItem) error {
	for _, d := range deductions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO income_deductions (source_id, name, kind, format, value, frequency)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sourceID, d.Name, d.Kind, d.Format, d.Value, d.Frequency); err != nil {
			return fmt.Errorf("insert deduction: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteIncomeSource(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM income WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete income source: %w", err)
	}
	return nil
}

// SaveMonthlyTotals persists the totals blob for one source.
func (r *SQLiteRepository) SaveMonthlyTotals(ctx context.Context, id int64, totals string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE income SET monthly_totals = ? WHERE id = ?`, totals, id)
	if err != nil {
		return fmt.Errorf("save monthly totals: %w", err)
	}
	return nil
}

// RecordPayment applies the paired write a sweep produces for one source:
// the updated totals blob and the advanced schedule cursor, atomically.
func (r *SQLiteRepository) RecordPayment(ctx context.Context, id int64, totals string, next time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE income SET monthly_totals = ? WHERE id = ?`, totals, id); err != nil {
		return fmt.Errorf("record payment totals: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE income SET next_payment_date = ? WHERE id = ?`, formatTime(next), id); err != nil {
		return fmt.Errorf("record payment date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment record: %w", err)
	}
	return nil
}
