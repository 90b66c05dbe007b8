package paymentsvc_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"gamehub/model"
	depositrepo "gamehub/repository/deposit"
	"gamehub/service/apperr"
	paymentsvc "gamehub/service/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// --- stub sql driver: Begin/Commit/Rollback are no-ops so the service can
// run its transaction choreography while the repo mocks ignore the tx ---

type stubDriver struct{}
type stubConn struct{}
type stubTx struct{}

func (stubDriver) Open(string) (driver.Conn, error)  { return stubConn{}, nil }
func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }
func (stubTx) Commit() error                         { return nil }
func (stubTx) Rollback() error                       { return nil }

func init() { sql.Register("paymentsvc_stub", stubDriver{}) }

func stubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("paymentsvc_stub", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- repo mocks ---

type depositMock struct {
	insertFn       func(ctx context.Context, userID int64, amount decimal.Decimal, note string) (*depositrepo.Row, error)
	byIDFn         func(ctx context.Context, id int64) (*depositrepo.Row, error)
	byIDTxFn       func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error)
	listPendingFn  func(ctx context.Context, limit, offset int) ([]depositrepo.Row, int64, error)
	listByUserFn   func(ctx context.Context, userID int64, limit, offset int) ([]depositrepo.Row, int64, error)
	markDecidedFn  func(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error
	insertLedgerFn func(ctx context.Context, tx *sql.Tx, e model.LedgerEntry) error
	listLedgerFn   func(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
}

func (m *depositMock) Insert(ctx context.Context, userID int64, amount decimal.Decimal, note string) (*depositrepo.Row, error) {
	return m.insertFn(ctx, userID, amount, note)
}
func (m *depositMock) ByID(ctx context.Context, id int64) (*depositrepo.Row, error) {
	return m.byIDFn(ctx, id)
}
func (m *depositMock) ByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
	return m.byIDTxFn(ctx, tx, id)
}
func (m *depositMock) ListPending(ctx context.Context, limit, offset int) ([]depositrepo.Row, int64, error) {
	return m.listPendingFn(ctx, limit, offset)
}
func (m *depositMock) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]depositrepo.Row, int64, error) {
	return m.listByUserFn(ctx, userID, limit, offset)
}
func (m *depositMock) MarkDecided(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
	return m.markDecidedFn(ctx, tx, id, status, adminID, adminNote, at)
}
func (m *depositMock) InsertLedger(ctx context.Context, tx *sql.Tx, e model.LedgerEntry) error {
	if m.insertLedgerFn == nil {
		return nil
	}
	return m.insertLedgerFn(ctx, tx, e)
}
func (m *depositMock) ListLedger(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	return m.listLedgerFn(ctx, userID)
}

type userMock struct {
	createFn        func(ctx context.Context, u *model.User) error
	byEmailFn       func(ctx context.Context, email string) (*model.User, error)
	byIDFn          func(ctx context.Context, id int64) (*model.User, error)
	updateStatusFn  func(ctx context.Context, id int64, status model.UserStatus) error
	balForUpdateFn  func(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error)
	updateBalanceFn func(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error
}

func (m *userMock) Create(ctx context.Context, u *model.User) error { return m.createFn(ctx, u) }
func (m *userMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}
func (m *userMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return &model.User{ID: id, Email: "admin@gamehub.dev", Role: model.RoleAdmin}, nil
	}
	return m.byIDFn(ctx, id)
}
func (m *userMock) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	return m.updateStatusFn(ctx, id, status)
}
func (m *userMock) GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error) {
	return m.balForUpdateFn(ctx, tx, userID)
}
func (m *userMock) UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error {
	return m.updateBalanceFn(ctx, tx, userID, newBalance)
}

type paymentInfoMock struct {
	findFn   func(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error)
	insertFn func(ctx context.Context, scope model.PaymentScope, req model.PaymentInfoReq) (*model.PaymentInfo, error)
	updateFn func(ctx context.Context, id int64, req model.PaymentInfoReq) (*model.PaymentInfo, error)
}

func (m *paymentInfoMock) FindByScope(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error) {
	return m.findFn(ctx, scope)
}
func (m *paymentInfoMock) Insert(ctx context.Context, scope model.PaymentScope, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	return m.insertFn(ctx, scope, req)
}
func (m *paymentInfoMock) Update(ctx context.Context, id int64, req model.PaymentInfoReq) (*model.PaymentInfo, error) {
	return m.updateFn(ctx, id, req)
}

func pendingRow(id, userID int64, amount string) *depositrepo.Row {
	return &depositrepo.Row{
		DepositRequest: model.DepositRequest{
			ID:     id,
			UserID: userID,
			Amount: decimal.RequireFromString(amount),
			Status: model.DepositPending,
		},
		UserEmail: "dev@gamehub.dev",
		UserName:  "Dev One",
	}
}

// --- tests ---

func TestApprove_CreditsBalanceExactlyOnce(t *testing.T) {
	ctx := context.Background()

	credits := 0
	var credited decimal.Decimal
	var ledger []model.LedgerEntry

	dm := &depositMock{
		byIDTxFn: func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
			return pendingRow(7, 42, "100.00"), nil
		},
		markDecidedFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
			require.Equal(t, model.DepositApproved, status)
			require.Equal(t, int64(1), adminID)
			require.Equal(t, "ok", adminNote)
			return nil
		},
		insertLedgerFn: func(ctx context.Context, tx *sql.Tx, e model.LedgerEntry) error {
			ledger = append(ledger, e)
			return nil
		},
	}
	um := &userMock{
		balForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error) {
			require.Equal(t, int64(42), userID)
			return decimal.RequireFromString("50.25"), nil
		},
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error {
			credits++
			credited = newBalance
			return nil
		},
	}

	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, um)
	row, err := s.Approve(ctx, 7, 1, model.DepositApprovalReq{Status: "APPROVED", AdminNote: "ok"})
	require.NoError(t, err)

	require.Equal(t, model.DepositApproved, row.Status)
	require.NotNil(t, row.ApprovedAt)
	require.Equal(t, 1, credits)
	require.True(t, credited.Equal(decimal.RequireFromString("150.25")),
		"want 150.25 got %s", credited)

	require.Len(t, ledger, 1)
	require.Equal(t, model.LedgerDepositApproved, ledger[0].EntryType)
	require.True(t, ledger[0].Amount.Equal(decimal.RequireFromString("100.00")))
	require.True(t, ledger[0].BalanceAfter.Equal(credited))
}

func TestApprove_AlreadyDecidedFailsInvalidState(t *testing.T) {
	ctx := context.Background()

	credits := 0
	dm := &depositMock{
		byIDTxFn: func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
			r := pendingRow(7, 42, "100.00")
			r.Status = model.DepositApproved
			return r, nil
		},
		markDecidedFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
			t.Fatal("MarkDecided must not run for a decided request")
			return nil
		},
	}
	um := &userMock{
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error {
			credits++
			return nil
		},
	}

	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, um)
	_, err := s.Approve(ctx, 7, 1, model.DepositApprovalReq{Status: "APPROVED"})
	require.Error(t, err)
	require.Equal(t, apperr.ErrInvalidState, apperr.Code(err))
	require.Zero(t, credits, "balance must stay untouched")
}

func TestApprove_RaceLoserFailsInvalidState(t *testing.T) {
	// The row still reads PENDING but the conditional UPDATE matches nothing:
	// another transaction decided first.
	ctx := context.Background()

	dm := &depositMock{
		byIDTxFn: func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
			return pendingRow(7, 42, "100.00"), nil
		},
		markDecidedFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
			return depositrepo.ErrNotPending
		},
	}
	um := &userMock{
		updateBalanceFn: func(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error {
			t.Fatal("no credit after losing the decision race")
			return nil
		},
	}

	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, um)
	_, err := s.Approve(ctx, 7, 1, model.DepositApprovalReq{Status: "APPROVED"})
	require.Equal(t, apperr.ErrInvalidState, apperr.Code(err))
}

func TestApprove_RejectDoesNotTouchBalance(t *testing.T) {
	ctx := context.Background()

	dm := &depositMock{
		byIDTxFn: func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
			return pendingRow(9, 42, "33.10"), nil
		},
		markDecidedFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
			require.Equal(t, model.DepositRejected, status)
			return nil
		},
	}
	um := &userMock{
		balForUpdateFn: func(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error) {
			t.Fatal("rejection must not read the balance")
			return decimal.Zero, nil
		},
	}

	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, um)
	row, err := s.Approve(ctx, 9, 1, model.DepositApprovalReq{Status: "REJECTED", AdminNote: "no transfer found"})
	require.NoError(t, err)
	require.Equal(t, model.DepositRejected, row.Status)
}

func TestApprove_MissingRequestFailsNotFound(t *testing.T) {
	dm := &depositMock{
		byIDTxFn: func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, &userMock{})
	_, err := s.Approve(context.Background(), 404, 1, model.DepositApprovalReq{Status: "APPROVED"})
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestApprove_RefusesNonTerminalStatus(t *testing.T) {
	dm := &depositMock{
		byIDTxFn: func(ctx context.Context, tx *sql.Tx, id int64) (*depositrepo.Row, error) {
			t.Fatal("request must not be read for an invalid verdict")
			return nil, nil
		},
		markDecidedFn: func(ctx context.Context, tx *sql.Tx, id int64, status model.DepositStatus, adminID int64, adminNote string, at time.Time) error {
			t.Fatal("a non-terminal status must never reach the store")
			return nil
		},
	}
	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, &userMock{})

	for _, status := range []string{"PENDING", "paid", ""} {
		_, err := s.Approve(context.Background(), 7, 1, model.DepositApprovalReq{Status: status})
		require.Equal(t, apperr.ErrValidation, apperr.Code(err), "status %q", status)
	}
}

func TestCreateDeposit_Validation(t *testing.T) {
	inserted := 0
	dm := &depositMock{
		insertFn: func(ctx context.Context, userID int64, amount decimal.Decimal, note string) (*depositrepo.Row, error) {
			inserted++
			r := pendingRow(1, userID, amount.String())
			r.TransactionNote = note
			return r, nil
		},
	}
	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, &userMock{})

	for _, bad := range []string{"", "abc", "0", "-5", "-0.01"} {
		_, err := s.CreateDeposit(context.Background(), 42, model.CreateDepositReq{Amount: bad})
		require.Equal(t, apperr.ErrValidation, apperr.Code(err), "amount %q", bad)
	}
	require.Zero(t, inserted)

	row, err := s.CreateDeposit(context.Background(), 42, model.CreateDepositReq{Amount: "100.00", TransactionNote: "bank ref 77"})
	require.NoError(t, err)
	require.Equal(t, model.DepositPending, row.Status)
	require.Equal(t, "bank ref 77", row.TransactionNote)
	require.Equal(t, 1, inserted)
}

func TestListings_PageNormalization(t *testing.T) {
	var gotLimit, gotOffset int
	dm := &depositMock{
		listPendingFn: func(ctx context.Context, limit, offset int) ([]depositrepo.Row, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
		listByUserFn: func(ctx context.Context, userID int64, limit, offset int) ([]depositrepo.Row, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
	}
	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, &userMock{})

	_, _, err := s.PendingDeposits(context.Background(), -3, 0)
	require.NoError(t, err)
	require.Equal(t, 10, gotLimit)
	require.Equal(t, 0, gotOffset)

	_, _, err = s.UserDeposits(context.Background(), 42, 2, 500)
	require.NoError(t, err)
	require.Equal(t, 100, gotLimit, "size capped")
	require.Equal(t, 200, gotOffset)
}

func TestDepositByID_Permissions(t *testing.T) {
	dm := &depositMock{
		byIDFn: func(ctx context.Context, id int64) (*depositrepo.Row, error) {
			if id != 7 {
				return nil, sql.ErrNoRows
			}
			return pendingRow(7, 42, "10.00"), nil
		},
	}
	s := paymentsvc.New(stubDB(t), &paymentInfoMock{}, dm, &userMock{})
	ctx := context.Background()

	_, err := s.DepositByID(ctx, 99, 1, model.RoleAdmin)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	_, err = s.DepositByID(ctx, 7, 42, model.RoleDeveloper)
	require.NoError(t, err, "owner may read")

	_, err = s.DepositByID(ctx, 7, 1, model.RoleAdmin)
	require.NoError(t, err, "admin may read")

	_, err = s.DepositByID(ctx, 7, 43, model.RoleDeveloper)
	require.Equal(t, apperr.ErrPermissionDenied, apperr.Code(err))
}

func TestSetPaymentInfo_UpsertPaths(t *testing.T) {
	req := model.PaymentInfoReq{AccountNumber: "0011223344", BankName: "VCB", AccountHolderName: "GameHub Ops"}

	t.Run("insert when absent", func(t *testing.T) {
		pm := &paymentInfoMock{
			findFn: func(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error) {
				require.True(t, scope.Global)
				return nil, sql.ErrNoRows
			},
			insertFn: func(ctx context.Context, scope model.PaymentScope, r model.PaymentInfoReq) (*model.PaymentInfo, error) {
				return &model.PaymentInfo{ID: 1, AccountNumber: r.AccountNumber, IsActive: true}, nil
			},
		}
		s := paymentsvc.New(stubDB(t), pm, &depositMock{}, &userMock{})
		got, err := s.SetGlobalPaymentInfo(context.Background(), req)
		require.NoError(t, err)
		require.True(t, got.IsActive)
	})

	t.Run("update in place when present", func(t *testing.T) {
		updated := false
		pm := &paymentInfoMock{
			findFn: func(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error) {
				require.False(t, scope.Global)
				require.Equal(t, int64(42), scope.UserID)
				return &model.PaymentInfo{ID: 5}, nil
			},
			updateFn: func(ctx context.Context, id int64, r model.PaymentInfoReq) (*model.PaymentInfo, error) {
				updated = true
				require.Equal(t, int64(5), id)
				return &model.PaymentInfo{ID: 5, AccountNumber: r.AccountNumber, IsActive: true}, nil
			},
		}
		s := paymentsvc.New(stubDB(t), pm, &depositMock{}, &userMock{})
		_, err := s.SetUserPaymentInfo(context.Background(), 42, req)
		require.NoError(t, err)
		require.True(t, updated)
	})

	t.Run("not found signals", func(t *testing.T) {
		pm := &paymentInfoMock{
			findFn: func(ctx context.Context, scope model.PaymentScope) (*model.PaymentInfo, error) {
				return nil, sql.ErrNoRows
			},
		}
		s := paymentsvc.New(stubDB(t), pm, &depositMock{}, &userMock{})
		_, err := s.ActivePaymentInfo(context.Background())
		require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
		_, err = s.UserPaymentInfo(context.Background(), 42)
		require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
	})
}
