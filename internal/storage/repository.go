// Package storage implements the SQLite persistence layer.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finch/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// formatTime renders a timestamp in the persisted layout (UTC RFC 3339).
// Zero times persist as NULL.
func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(core.TimeLayout), Valid: true}
}

// parseTime is the inverse of formatTime; unparseable values come back zero.
func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(core.TimeLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Accounts ---

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind, COALESCE(wallet_addr, ''), balance, balance_updated
		 FROM accounts ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		var updated sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.WalletAddr, &a.Balance, &updated); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.BalanceUpdated = parseTime(updated)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, kind, wallet_addr, balance, balance_updated)
		 VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Kind, a.WalletAddr, a.Balance, formatTime(a.BalanceUpdated))
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("account insert id: %w", err)
	}
	slog.InfoContext(ctx, "Account saved", "id", id, "name", a.Name)
	return id, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// --- Vehicles ---

func (r *SQLiteRepository) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, ownership_type, COALESCE(value, 0), COALESCE(payment_date, ''),
		        COALESCE(remaining_payments, 0), COALESCE(payment_amount, 0), COALESCE(description, '')
		 FROM vehicles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []core.Vehicle
	for rows.Next() {
		var v core.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.OwnershipType, &v.Value, &v.PaymentDate,
			&v.RemainingPayments, &v.PaymentAmount, &v.Description); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *SQLiteRepository) CreateVehicle(ctx context.Context, v core.Vehicle) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (name, ownership_type, value, payment_date, remaining_payments, payment_amount, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.Name, v.OwnershipType, v.Value, v.PaymentDate, v.RemainingPayments, v.PaymentAmount, v.Description)
	if err != nil {
		return 0, fmt.Errorf("create vehicle: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdateVehicle(ctx context.Context, v core.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles
		 SET name = ?, ownership_type = ?, value = ?, payment_date = ?,
		     remaining_payments = ?, payment_amount = ?, description = ?
		 WHERE id = ?`,
		v.Name, v.OwnershipType, v.Value, v.PaymentDate, v.RemainingPayments,
		v.PaymentAmount, v.Description, v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteVehicle(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}

// --- Categories ---

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, parent_id, kind, is_default FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &parent, &c.Kind, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parent.Valid {
			c.ParentID = &parent.Int64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	var parent sql.NullInt64
	if c.ParentID != nil {
		parent = sql.NullInt64{Int64: *c.ParentID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, parent_id, kind, is_default) VALUES (?, ?, ?, ?)`,
		c.Name, parent, c.Kind, c.IsDefault)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return res.LastInsertId()
}

// DeleteCategory removes a user-defined category. Seeded defaults stay.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND is_default = 0`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// --- Payment methods ---

func (r *SQLiteRepository) ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, name, COALESCE(statement_date, 0), COALESCE(payment_account, ''),
		        COALESCE(annual_fee, 0), COALESCE(ticker_symbol, ''), COALESCE(wallet_address, '')
		 FROM payment_methods ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []core.PaymentMethod
	for rows.Next() {
		var m core.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Kind, &m.Name, &m.StatementDate, &m.PaymentAccount,
			&m.AnnualFee, &m.TickerSymbol, &m.WalletAddress); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range methods {
		rewards, err := r.listRewards(ctx, methods[i].ID)
		if err != nil {
			return nil, err
		}
		methods[i].Rewards = rewards
	}
	return methods, nil
}

func (r *SQLiteRepository) listRewards(ctx context.Context, methodID int64) ([]core.Reward, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payment_method_id, kind, amount, category_id, COALESCE(frequency, '')
		 FROM rewards WHERE payment_method_id = ?`, methodID)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []core.Reward
	for rows.Next() {
		var rw core.Reward
		if err := rows.Scan(&rw.ID, &rw.PaymentMethodID, &rw.Kind, &rw.Amount, &rw.CategoryID, &rw.Frequency); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}

// CreatePaymentMethod inserts a method with its rewards in one transaction.
func (r *SQLiteRepository) CreatePaymentMethod(ctx context.Context, m core.PaymentMethod) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO payment_methods (kind, name, statement_date, payment_account, annual_fee, ticker_symbol, wallet_address)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Kind, m.Name, m.StatementDate, m.PaymentAccount, m.AnnualFee, m.TickerSymbol, m.WalletAddress)
	if err != nil {
		return 0, fmt.Errorf("create payment method: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payment method insert id: %w", err)
	}

	for _, rw := range m.Rewards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rewards (payment_method_id, kind, amount, category_id, frequency)
			 VALUES (?, ?, ?, ?, ?)`,
			id, rw.Kind, rw.Amount, rw.CategoryID, rw.Frequency); err != nil {
			return 0, fmt.Errorf("create reward: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit payment method: %w", err)
	}
	return id, nil
}

// UpdatePaymentMethod rewrites the method row and replaces its reward list
// wholesale, mirroring the deduction edit semantics.
func (r *SQLiteRepository) UpdatePaymentMethod(ctx context.Context, m core.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE payment_methods
		 SET kind = ?, name = ?, statement_date = ?, payment_account = ?, annual_fee = ?, ticker_symbol = ?, wallet_address = ?
		 WHERE id = ?`,
		m.Kind, m.Name, m.StatementDate, m.PaymentAccount, m.AnnualFee, m.TickerSymbol, m.WalletAddress, m.ID); err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rewards WHERE payment_method_id = ?`, m.ID); err != nil {
		return fmt.Errorf("clear rewards: %w", err)
	}
	for _, rw := range m.Rewards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rewards (payment_method_id, kind, amount, category_id, frequency)
			 VALUES (?, ?, ?, ?, ?)`,
			m.ID, rw.Kind, rw.Amount, rw.CategoryID, rw.Frequency); err != nil {
			return fmt.Errorf("insert reward: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment method update: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeletePaymentMethod(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return nil
}

// --- Investments ---

func (r *SQLiteRepository) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, ticker, value, monthly_totals, last_updated
		 FROM investments ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var investments []core.Investment
	for rows.Next() {
		var inv core.Investment
		var totalsRaw string
		var updated sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Ticker, &inv.Value, &totalsRaw, &updated); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		totals, err := core.ParseMonthlyTotals(totalsRaw)
		if err != nil {
			slog.WarnContext(ctx, "Corrupt investment totals blob, starting empty",
				"id", inv.ID, "error", err)
		}
		inv.Totals = totals
		inv.LastUpdated = parseTime(updated)
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *SQLiteRepository) CreateInvestment(ctx context.Context, inv core.Investment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO investments (name, ticker, value, monthly_totals, last_updated)
		 VALUES (?, ?, ?, '{}', ?)`,
		inv.Name, inv.Ticker, inv.Value, formatTime(inv.LastUpdated))
	if err != nil {
		return 0, fmt.Errorf("create investment: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE investments SET name = ?, ticker = ?, value = ?, last_updated = ? WHERE id = ?`,
		inv.Name, inv.Ticker, inv.Value, formatTime(inv.LastUpdated), inv.ID)
	if err != nil {
		return fmt.Errorf("update investment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveInvestmentTotals(ctx context.Context, id int64, totals string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE investments SET monthly_totals = ? WHERE id = ?`, totals, id)
	if err != nil {
		return fmt.Errorf("save investment totals: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	return nil
}

// --- Settings ---

func (r *SQLiteRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}
