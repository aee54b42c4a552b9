// Package storage persists the roster and charge records on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"

	_ "modernc.org/sqlite" // pure Go driver, no CGO
)

var _ Store = (*SQLiteRepository)(nil)

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

	// Cascade from participants to charges relies on this pragma.
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

func (r *SQLiteRepository) ListParticipants(ctx context.Context) ([]core.Participant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, monthly_fee, payment_method, notes
		 FROM participants ORDER BY name COLLATE NOCASE, name`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []core.Participant
	for rows.Next() {
		var p core.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyFee, &p.PaymentMethod, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetParticipant(ctx context.Context, id string) (core.Participant, error) {
	var p core.Participant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_fee, payment_method, notes
		 FROM participants WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.MonthlyFee, &p.PaymentMethod, &p.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Participant{}, core.ErrParticipantNotFound
	}
	if err != nil {
		return core.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) CreateParticipant(ctx context.Context, p core.Participant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (id, name, monthly_fee, payment_method, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.MonthlyFee, p.PaymentMethod, p.Notes)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	slog.InfoContext(ctx, "Participant created", "id", p.ID, "name", p.Name, "monthly_fee", p.MonthlyFee)
	return nil
}

// UpdateParticipant edits roster data only. Existing charges keep their
// snapshotted due amounts: a fee change never rewrites past months.
func (r *SQLiteRepository) UpdateParticipant(ctx context.Context, p core.Participant) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE participants SET name = ?, monthly_fee = ?, payment_method = ?, notes = ?
		 WHERE id = ?`,
		p.Name, p.MonthlyFee, p.PaymentMethod, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrParticipantNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteParticipant(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrParticipantNotFound
	}
	slog.InfoContext(ctx, "Participant deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ChargesForMonth(ctx context.Context, month core.MonthKey) ([]core.Charge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, participant_id, month, amount_due, amount_paid, paid_at
		 FROM charges WHERE month = ?`, month.Key())
	if err != nil {
		return nil, fmt.Errorf("charges for month %s: %w", month.Key(), err)
	}
	defer rows.Close()
	return scanCharges(rows)
}

func (r *SQLiteRepository) InsertCharges(ctx context.Context, charges []core.Charge) (int, error) {
	if len(charges) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, c := range charges {
		// The unique (participant_id, month) constraint turns a lost
		// reconciliation race into a no-op instead of an error.
		res, err := tx.ExecContext(ctx,
			`INSERT INTO charges (id, participant_id, month, amount_due, amount_paid, paid_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (participant_id, month) DO NOTHING`,
			c.ID, c.ParticipantID, c.Month.Key(), c.AmountDue, c.AmountPaid, formatPaidAt(c.PaidAt))
		if err != nil {
			return 0, fmt.Errorf("insert charge for participant %s: %w", c.ParticipantID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit charges: %w", err)
	}
	return int(inserted), nil
}

func (r *SQLiteRepository) GetCharge(ctx context.Context, id string) (core.Charge, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, participant_id, month, amount_due, amount_paid, paid_at
		 FROM charges WHERE id = ?`, id)

	c, err := scanCharge(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Charge{}, core.ErrChargeNotFound
	}
	if err != nil {
		return core.Charge{}, fmt.Errorf("get charge: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateChargePayment(ctx context.Context, id string, paid, due float64, paidAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE charges SET amount_paid = ?, amount_due = ?, paid_at = ? WHERE id = ?`,
		paid, due, formatPaidAt(paidAt), id)
	if err != nil {
		return fmt.Errorf("update charge payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrChargeNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListCharges(ctx context.Context) ([]core.Charge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, participant_id, month, amount_due, amount_paid, paid_at
		 FROM charges ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	defer rows.Close()
	return scanCharges(rows)
}

func (r *SQLiteRepository) ListNamedCharges(ctx context.Context) ([]core.NamedCharge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.participant_id, c.month, c.amount_due, c.amount_paid, c.paid_at, p.name
		 FROM charges c JOIN participants p ON p.id = c.participant_id
		 ORDER BY c.month DESC, p.name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list named charges: %w", err)
	}
	defer rows.Close()

	var out []core.NamedCharge
	for rows.Next() {
		var (
			nc       core.NamedCharge
			monthKey string
			paidAt   sql.NullString
		)
		if err := rows.Scan(&nc.ID, &nc.ParticipantID, &monthKey, &nc.AmountDue, &nc.AmountPaid, &paidAt, &nc.Name); err != nil {
			return nil, fmt.Errorf("scan named charge: %w", err)
		}
		if nc.Month, err = core.ParseMonthKey(monthKey); err != nil {
			return nil, fmt.Errorf("parse month key: %w", err)
		}
		if nc.PaidAt, err = parsePaidAt(paidAt); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate named charges: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) ParticipantHistory(ctx context.Context, participantID string) ([]core.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, amount_due, amount_paid
		 FROM charges WHERE participant_id = ? ORDER BY month ASC`, participantID)
	if err != nil {
		return nil, fmt.Errorf("participant history: %w", err)
	}
	defer rows.Close()

	var out []core.HistoryEntry
	for rows.Next() {
		var (
			e        core.HistoryEntry
			monthKey string
		)
		if err := rows.Scan(&monthKey, &e.AmountDue, &e.AmountPaid); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if e.Month, err = core.ParseMonthKey(monthKey); err != nil {
			return nil, fmt.Errorf("parse month key: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func scanCharges(rows *sql.Rows) ([]core.Charge, error) {
	var out []core.Charge
	for rows.Next() {
		c, err := scanCharge(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charges: %w", err)
	}
	return out, nil
}

func scanCharge(scan func(dest ...any) error) (core.Charge, error) {
	var (
		c        core.Charge
		monthKey string
		paidAt   sql.NullString
	)
	if err := scan(&c.ID, &c.ParticipantID, &monthKey, &c.AmountDue, &c.AmountPaid, &paidAt); err != nil {
		return core.Charge{}, err
	}
	month, err := core.ParseMonthKey(monthKey)
	if err != nil {
		return core.Charge{}, fmt.Errorf("parse month key: %w", err)
	}
	c.Month = month
	if c.PaidAt, err = parsePaidAt(paidAt); err != nil {
		return core.Charge{}, err
	}
	return c, nil
}

func formatPaidAt(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parsePaidAt(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, fmt.Errorf("parse paid_at: %w", err)
	}
	return &t, nil
}
