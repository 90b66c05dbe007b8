package depositrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gamehub/model"

	"github.com/shopspring/decimal"
)

// ErrNotPending is returned when a decision update matches no PENDING row:
// either the id does not exist or another decision already landed.
var ErrNotPending = errors.New("deposit request not pending")

// Row is a deposit request joined with its owner (and approver, when any)
// for response mapping.
type Row struct {
	model.DepositRequest
	UserEmail       string
	UserName        string
	ApprovedByEmail *string
}

type Repo interface {
	Insert(ctx context.Context, userID int64, amount decimal.Decimal, note string) (*Row, error)
	ByID(ctx context.Context, id int64) (*Row, error)
	// ByIDTx locks the deposit row for the rest of the transaction.
	ByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*Row, error)

	ListPending(ctx context.Context, limit, offset int) ([]Row, int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Row, int64, error)

	// MarkDecided flips a PENDING request to the terminal status inside tx.
	// The status precondition lives in the UPDATE itself so two racing
	// approvals cannot both succeed.
	MarkDecided(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error

	InsertLedger(ctx context.Context, tx *sql.Tx, e model.LedgerEntry) error
	ListLedger(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const cols = `d.id, d.user_id, d.amount, d.transaction_note, d.status, d.admin_note,
	d.approved_by, d.approved_at, d.created_at, d.updated_at,
	u.email, u.full_name, a.email`

const fromJoin = `
FROM deposit_requests d
JOIN users u ON u.id = d.user_id
LEFT JOIN users a ON a.id = d.approved_by`

func scanRow(s interface{ Scan(dest ...any) error }) (*Row, error) {
	r := &Row{}
	err := s.Scan(&r.ID, &r.UserID, &r.Amount, &r.TransactionNote, &r.Status,
		&r.Note, &r.ApprovedByID, &r.ApprovedAt, &r.CreatedAt, &r.UpdatedAt,
		&r.UserEmail, &r.UserName, &r.ApprovedByEmail)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *repo) Insert(ctx context.Context, userID int64, amount decimal.Decimal, note string) (*Row, error) {
	const q = `
WITH ins AS (
	INSERT INTO deposit_requests (user_id, amount, transaction_note, status)
	VALUES ($1,$2,$3,'PENDING')
	RETURNING *
)
SELECT ` + cols + `
FROM ins d
JOIN users u ON u.id = d.user_id
LEFT JOIN users a ON a.id = d.approved_by`
	return scanRow(r.db.QueryRowContext(ctx, q, userID, amount, note))
}

func (r *repo) ByID(ctx context.Context, id int64) (*Row, error) {
	const q = `SELECT ` + cols + fromJoin + ` WHERE d.id=$1`
	return scanRow(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*Row, error) {
	const q = `SELECT ` + cols + fromJoin + ` WHERE d.id=$1 FOR UPDATE OF d`
	return scanRow(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) list(ctx context.Context, q, countQ string, args ...any) ([]Row, int64, error) {
	// limit/offset are the trailing args; the count query takes the rest.
	var total int64
	if err := r.db.QueryRowContext(ctx, countQ, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		d, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	return out, total, rows.Err()
}

func (r *repo) ListPending(ctx context.Context, limit, offset int) ([]Row, int64, error) {
	// Oldest first: pending requests are processed FIFO.
	const q = `SELECT ` + cols + fromJoin + `
WHERE d.status='PENDING'
ORDER BY d.created_at ASC
LIMIT $1 OFFSET $2`
	const countQ = `SELECT COUNT(*) FROM deposit_requests WHERE status='PENDING'`
	return r.list(ctx, q, countQ, limit, offset)
}

func (r *repo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Row, int64, error) {
	const q = `SELECT ` + cols + fromJoin + `
WHERE d.user_id=$1
ORDER BY d.created_at DESC
LIMIT $2 OFFSET $3`
	const countQ = `SELECT COUNT(*) FROM deposit_requests WHERE user_id=$1`
	return r.list(ctx, q, countQ, userID, limit, offset)
}

func (r *repo) MarkDecided(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
	const q = `
	UPDATE deposit_requests
	SET status=$2, admin_note=$3, approved_by=$4, approved_at=$5, updated_at=NOW()
	WHERE id=$1 AND status='PENDING'`
	res, err := tx.ExecContext(ctx, q, id, status, adminNote, adminID, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *repo) InsertLedger(ctx context.Context, tx *sql.Tx, e model.LedgerEntry) error {
	const q = `
INSERT INTO wallet_ledger (user_id, ref_table, ref_id, entry_type, amount, balance_after)
VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := tx.ExecContext(ctx, q, e.UserID, e.RefTable, e.RefID, e.EntryType, e.Amount, e.BalanceAfter)
	return err
}

func (r *repo) ListLedger(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	const q = `
SELECT id, user_id, ref_table, ref_id, entry_type, amount, balance_after, created_at
FROM wallet_ledger
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.RefTable, &e.RefID, &e.EntryType, &e.Amount, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
