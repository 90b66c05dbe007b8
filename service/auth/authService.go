package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gamehub/model"
	userrepo "gamehub/repository/user"
	"gamehub/util/hash"
	jwtutil "gamehub/util/jwt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadInput     = errors.New("bad input")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrBanned       = errors.New("account banned")
	ErrUserNotFound = errors.New("user not found")
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)

	// SetUserStatus is the admin user-status administration operation:
	// approving pending designers, rejecting or banning accounts.
	SetUserStatus(ctx context.Context, userID int64, status model.UserStatus) (*model.User, error)
}

type service struct {
	ur     userrepo.Repo
	secret string
}

func New(ur userrepo.Repo, secret string) Service { return &service{ur: ur, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	role := model.UserRole(req.Role)
	if !role.Valid() || role == model.RoleAdmin {
		return nil, "", ErrBadInput
	}

	// Designers are moderated accounts: they stay PENDING until an admin
	// approves them. Developers can transact right away.
	status := model.UserApproved
	if role == model.RoleDesigner {
		status = model.UserPending
	}

	u := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
		Status:       status,
	}

	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, string(u.Role), 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", ErrInvalidCreds
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}
	if u.Status == model.UserBanned {
		return nil, "", ErrBanned
	}
	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, string(u.Role), 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) SetUserStatus(ctx context.Context, userID int64, status model.UserStatus) (*model.User, error) {
	if err := s.ur.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.ur.ByID(ctx, userID)
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return ErrEmailTaken
		}
		return ErrBadInput
	}
	return nil
}
