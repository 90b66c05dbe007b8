package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gamehub/model"
	depositrepo "gamehub/repository/deposit"
	paymentinforepo "gamehub/repository/paymentinfo"
	userrepo "gamehub/repository/user"
	"gamehub/service/apperr"

	"github.com/shopspring/decimal"
)

// DepositRow = repository shape (deposit joined with owner/approver).
type DepositRow = depositrepo.Row

type Service interface {
	// Payment-info management. The global record is the single bank/QR
	// account shown to depositors; per-user records are each member's own
	// payout details.
	SetGlobalPaymentInfo(ctx context.Context, req model.PaymentInfoReq) (*model.PaymentInfo, error)
	SetUserPaymentInfo(ctx context.Context, userID int64, req model.PaymentInfoReq) (*model.PaymentInfo, error)
	UserPaymentInfo(ctx context.Context, userID int64) (*model.PaymentInfo, error)
	ActivePaymentInfo(ctx context.Context) (*model.PaymentInfo, error)

	// Deposit workflow.
	CreateDeposit(ctx context.Context, userID int64, req model.CreateDepositReq) (*DepositRow, error)
	PendingDeposits(ctx context.Context, page, size int) ([]DepositRow, int64, error)
	UserDeposits(ctx context.Context, userID int64, page, size int) ([]DepositRow, int64, error)
	Approve(ctx context.Context, id, adminID int64, req model.DepositApprovalReq) (*DepositRow, error)
	DepositByID(ctx context.Context, id int64, callerID int64, callerRole model.UserRole) (*DepositRow, error)
	Ledger(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
}

type service struct {
	db *sql.DB
	pr paymentinforepo.Repo
	dr depositrepo.Repo
	ur userrepo.Repo
}

func New(db *sql.DB, pr paymentinforepo.Repo, dr depositrepo.Repo, ur userrepo.Repo) Service {
	return &service{db: db, pr: pr, dr: dr, ur: ur}
}

// ----- payment info -----

func (s *service) upsert(ctx context.Context, scope model.PaymentScope, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	existing, err := s.pr.FindByScope(ctx, scope)
	switch {
	case err == nil:
		return s.pr.Update(ctx, existing.ID, req)
	case errors.Is(err, sql.ErrNoRows):
		return s.pr.Insert(ctx, scope, req)
	default:
		return nil, err
	}
}

func (s *service) SetGlobalPaymentInfo(ctx context.Context, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	return s.upsert(ctx, model.GlobalScope(), req)
}

func (s *service) SetUserPaymentInfo(ctx context.Context, userID int64, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	return s.upsert(ctx, model.UserScope(userID), req)
}

func (s *service) UserPaymentInfo(ctx context.Context, userID int64) (*model.PaymentInfo, error) {
	p, err := s.pr.FindByScope(ctx, model.UserScope(userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.ErrNotFound, "payment info not found")
	}
	return p, err
}

func (s *service) ActivePaymentInfo(ctx context.Context) (*model.PaymentInfo, error) {
	p, err := s.pr.FindByScope(ctx, model.GlobalScope())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.ErrNotFound, "payment info not found")
	}
	return p, err
}

// ----- deposits -----

func (s *service) CreateDeposit(ctx context.Context, userID int64, req model.CreateDepositReq) (*DepositRow, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, "amount is not a valid decimal")
	}
	if !amount.IsPositive() {
		return nil, apperr.New(apperr.ErrValidation, "amount must be greater than 0")
	}
	return s.dr.Insert(ctx, userID, amount, req.TransactionNote)
}

func normalizePage(page, size int) (limit, offset int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return size, page * size
}

func (s *service) PendingDeposits(ctx context.Context, page, size int) ([]DepositRow, int64, error) {
	limit, offset := normalizePage(page, size)
	return s.dr.ListPending(ctx, limit, offset)
}

func (s *service) UserDeposits(ctx context.Context, userID int64, page, size int) ([]DepositRow, int64, error) {
	limit, offset := normalizePage(page, size)
	return s.dr.ListByUser(ctx, userID, limit, offset)
}

// Approve applies the admin verdict. The status flip and, on APPROVED, the
// balance credit and ledger entry commit in one transaction: a reader never
// sees an approved request without the credited balance, and two racing
// decisions on the same request yield one success and one InvalidState.
func (s *service) Approve(ctx context.Context, id, adminID int64, req model.DepositApprovalReq) (*DepositRow, error) {
	status := model.DepositStatus(req.Status)
	if status != model.DepositApproved && status != model.DepositRejected {
		return nil, apperr.Newf(apperr.ErrValidation, "status must be APPROVED or REJECTED, got %q", req.Status)
	}

	admin, err := s.ur.ByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	d, err := s.dr.ByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperr.New(apperr.ErrNotFound, "deposit request not found")
		}
		return nil, err
	}
	if d.Status != model.DepositPending {
		err = apperr.New(apperr.ErrInvalidState, "deposit request is not in pending status")
		return nil, err
	}

	now := time.Now().UTC()
	if err = s.dr.MarkDecided(ctx, tx, id, status, adminID, req.AdminNote, now); err != nil {
		if errors.Is(err, depositrepo.ErrNotPending) {
			err = apperr.New(apperr.ErrInvalidState, "deposit request is not in pending status")
		}
		return nil, err
	}

	if status == model.DepositApproved {
		var current decimal.Decimal
		current, err = s.ur.GetBalanceForUpdate(ctx, tx, d.UserID)
		if err != nil {
			return nil, err
		}
		newBal := current.Add(d.Amount)
		if err = s.ur.UpdateBalance(ctx, tx, d.UserID, newBal); err != nil {
			return nil, err
		}
		if err = s.dr.InsertLedger(ctx, tx, model.LedgerEntry{
			UserID:       d.UserID,
			RefTable:     "deposit_requests",
			RefID:        &d.ID,
			EntryType:    model.LedgerDepositApproved,
			Amount:       d.Amount,
			BalanceAfter: newBal,
		}); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	d.Status = status
	d.ApprovedByID = &adminID
	d.ApprovedByEmail = &admin.Email
	d.ApprovedAt = &now
	d.Note = &req.AdminNote
	d.UpdatedAt = now
	return d, nil
}

func (s *service) DepositByID(ctx context.Context, id int64, callerID int64, callerRole model.UserRole) (*DepositRow, error) {
	d, err := s.dr.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, "deposit request not found")
		}
		return nil, err
	}
	if callerRole != model.RoleAdmin && d.UserID != callerID {
		return nil, apperr.New(apperr.ErrPermissionDenied, "not your deposit request")
	}
	return d, nil
}

func (s *service) Ledger(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	return s.dr.ListLedger(ctx, userID)
}
