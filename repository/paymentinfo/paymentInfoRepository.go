package paymentinforepo

import (
	"context"
	"database/sql"

	"gamehub/model"
)

type Repo interface {
	// FindByScope returns the record for the given scope: the active global
	// row, or the user's row. sql.ErrNoRows when absent.
	FindByScope(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error)
	Insert(ctx context.Context, scope model.PaymentScope, req model.PaymentInfoReq) (*model.PaymentInfo, error)
	Update(ctx context.Context, id int64, req model.PaymentInfoReq) (*model.PaymentInfo, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const cols = `id, user_id, account_number, bank_name, account_holder_name, qr_code_url, is_active, created_at, updated_at`

func scan(row *sql.Row) (*model.PaymentInfo, error) {
	p := &model.PaymentInfo{}
	err := row.Scan(&p.ID, &p.UserID, &p.AccountNumber, &p.BankName,
		&p.AccountHolderName, &p.QRCodeURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) FindByScope(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error) {
	if scope.Global {
		const q = `SELECT ` + cols + ` FROM payment_info WHERE user_id IS NULL AND is_active LIMIT 1`
		return scan(r.db.QueryRowContext(ctx, q))
	}
	const q = `SELECT ` + cols + ` FROM payment_info WHERE user_id=$1 LIMIT 1`
	return scan(r.db.QueryRowContext(ctx, q, scope.UserID))
}

func (r *repo) Insert(ctx context.Context, scope model.PaymentScope, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	var userID *int64
	if !scope.Global {
		userID = &scope.UserID
	}
	const q = `
INSERT INTO payment_info (user_id, account_number, bank_name, account_holder_name, qr_code_url, is_active)
VALUES ($1,$2,$3,$4,$5,TRUE)
RETURNING ` + cols
	return scan(r.db.QueryRowContext(ctx, q,
		userID, req.AccountNumber, req.BankName, req.AccountHolderName, req.QRCodeURL))
}

func (r *repo) Update(ctx context.Context, id int64, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	const q = `
UPDATE payment_info
SET account_number=$2, bank_name=$3, account_holder_name=$4, qr_code_url=$5, updated_at=NOW()
WHERE id=$1
RETURNING ` + cols
	return scan(r.db.QueryRowContext(ctx, q,
		id, req.AccountNumber, req.BankName, req.AccountHolderName, req.QRCodeURL))
}
