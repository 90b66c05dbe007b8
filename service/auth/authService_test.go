// service/auth/auth_service_test.go
package authsvc

import (
	"context"
	"database/sql"
	"testing"

	"gamehub/model"
	userrepo "gamehub/repository/user"
	"gamehub/util/hash"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	createFn       func(ctx context.Context, u *model.User) error
	byEmailFn      func(ctx context.Context, email string) (*model.User, error)
	byIDFn         func(ctx context.Context, id int64) (*model.User, error)
	updateStatusFn func(ctx context.Context, id int64, status model.UserStatus) error
}

var _ userrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}
func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}
func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return m.byIDFn(ctx, id)
}
func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockRepo) GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (decimal.Decimal, error) {
	panic("unused")
}
func (m *mockRepo) UpdateBalance(ctx context.Context, tx *sql.Tx, userID int64, newBalance decimal.Decimal) error {
	panic("unused")
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

// --- tests ---

func TestRegister_DesignerStartsPending(t *testing.T) {
	var created *model.User
	m := &mockRepo{createFn: func(ctx context.Context, u *model.User) error {
		created = u
		u.ID = 42
		return nil
	}}
	s := New(m, "secret")

	u, token, err := s.Register(context.Background(), model.RegisterReq{
		FullName: "Dana", Email: "dana@gamehub.dev", Password: "hunter22", Role: "DESIGNER",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, model.UserPending, created.Status)
	require.Equal(t, model.RoleDesigner, u.Role)
}

func TestRegister_DeveloperStartsApproved(t *testing.T) {
	m := &mockRepo{createFn: func(ctx context.Context, u *model.User) error {
		require.Equal(t, model.UserApproved, u.Status)
		u.ID = 7
		return nil
	}}
	s := New(m, "secret")

	_, _, err := s.Register(context.Background(), model.RegisterReq{
		FullName: "Dev", Email: "dev@gamehub.dev", Password: "hunter22", Role: "DEVELOPER",
	})
	require.NoError(t, err)
}

func TestRegister_AdminRoleRefused(t *testing.T) {
	s := New(&mockRepo{}, "secret")
	_, _, err := s.Register(context.Background(), model.RegisterReq{
		FullName: "Mallory", Email: "m@gamehub.dev", Password: "hunter22", Role: "ADMIN",
	})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	m := &mockRepo{createFn: func(ctx context.Context, u *model.User) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
	}}
	s := New(m, "secret")

	_, _, err := s.Register(context.Background(), model.RegisterReq{
		FullName: "Dana", Email: "dana@gamehub.dev", Password: "hunter22", Role: "DESIGNER",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	stored := &model.User{
		ID: 42, Email: "dana@gamehub.dev", Role: model.RoleDesigner,
		Status: model.UserApproved, PasswordHash: mustHash(t, "hunter22"),
	}
	m := &mockRepo{byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
		if email == stored.Email {
			return stored, nil
		}
		return nil, sql.ErrNoRows
	}}
	s := New(m, "secret")
	ctx := context.Background()

	_, token, err := s.Login(ctx, model.LoginReq{Email: "dana@gamehub.dev", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, _, err = s.Login(ctx, model.LoginReq{Email: "dana@gamehub.dev", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCreds)

	_, _, err = s.Login(ctx, model.LoginReq{Email: "nobody@gamehub.dev", Password: "hunter22"})
	require.ErrorIs(t, err, ErrInvalidCreds)

	stored.Status = model.UserBanned
	_, _, err = s.Login(ctx, model.LoginReq{Email: "dana@gamehub.dev", Password: "hunter22"})
	require.ErrorIs(t, err, ErrBanned)
}

func TestSetUserStatus(t *testing.T) {
	statuses := map[int64]model.UserStatus{5: model.UserPending}
	m := &mockRepo{
		updateStatusFn: func(ctx context.Context, id int64, status model.UserStatus) error {
			if _, ok := statuses[id]; !ok {
				return sql.ErrNoRows
			}
			statuses[id] = status
			return nil
		},
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Status: statuses[id]}, nil
		},
	}
	s := New(m, "secret")

	u, err := s.SetUserStatus(context.Background(), 5, model.UserApproved)
	require.NoError(t, err)
	require.Equal(t, model.UserApproved, u.Status)

	_, err = s.SetUserStatus(context.Background(), 404, model.UserApproved)
	require.ErrorIs(t, err, ErrUserNotFound)
}
