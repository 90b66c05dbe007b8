package userrepo

import (
	"context"
	"database/sql"

	"gamehub/model"

	"github.com/shopspring/decimal"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error

	GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(full_name, email, password_hash, role, status, balance)
		VALUES ($1,$2,$3,$4,$5,0)
		RETURNING id, balance, created_at, updated_at`,
		u.FullName, u.Email, u.PasswordHash, u.Role, u.Status,
	).Scan(&u.ID, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
}

const userCols = `id, full_name, email, password_hash, role, status, balance, created_at, updated_at`

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT `+userCols+`
        FROM users
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT `+userCols+`
        FROM users
        WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error) {
	const q = `SELECT balance FROM users WHERE id=$1 FOR UPDATE`
	var bal decimal.Decimal
	if err := tx.QueryRowContext(ctx, q, userID).Scan(&bal); err != nil {
		return decimal.Zero, err
	}
	return bal, nil
}

func (r *repo) UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error {
	const q = `UPDATE users SET balance=$2, updated_at=NOW() WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, userID, newBalance)
	return err
}
