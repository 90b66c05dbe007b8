package assetrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gamehub/model"
)

// ErrNotPending mirrors depositrepo: the decision UPDATE matched no PENDING row.
var ErrNotPending = errors.New("asset not pending")

type Repo interface {
	Insert(ctx context.Context, a *model.Asset) error
	ByID(ctx context.Context, id int64) (*model.Asset, error)

	ListByDesigner(ctx context.Context, designerID int64) ([]model.Asset, error)
	ListByStatus(ctx context.Context, status model.AssetStatus) ([]model.Asset, error)
	ListByStatusAndType(ctx context.Context, status model.AssetStatus, t model.AssetType) ([]model.Asset, error)
	ListByTag(ctx context.Context, tag string) ([]model.Asset, error)

	MarkApproved(ctx context.Context, id, adminID int64, at time.Time) error
	MarkRejected(ctx context.Context, id, adminID int64, reason string, at time.Time) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const cols = `id, name, description, file_url, type, price, tags, file_type, status, designer_id, approved_by, approved_at, rejection_reason, created_at`

func scanAsset(s interface {
	Scan(dest ...any) error
}) (*model.Asset, error) {
	a := &model.Asset{}
	err := s.Scan(&a.ID, &a.Name, &a.Description, &a.FileURL, &a.Type, &a.Price,
		&a.Tags, &a.FileType, &a.Status, &a.DesignerID, &a.ApprovedByID,
		&a.ApprovedAt, &a.RejectionReason, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repo) Insert(ctx context.Context, a *model.Asset) error {
	const q = `
INSERT INTO assets (name, description, file_url, type, price, tags, file_type, status, designer_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		a.Name, a.Description, a.FileURL, a.Type, a.Price, a.Tags, a.FileType, a.Status, a.DesignerID,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Asset, error) {
	const q = `SELECT ` + cols + ` FROM assets WHERE id=$1`
	return scanAsset(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) listQuery(ctx context.Context, q string, args ...any) ([]model.Asset, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *repo) ListByDesigner(ctx context.Context, designerID int64) ([]model.Asset, error) {
	const q = `SELECT ` + cols + ` FROM assets WHERE designer_id=$1 ORDER BY created_at DESC`
	return r.listQuery(ctx, q, designerID)
}

func (r *repo) ListByStatus(ctx context.Context, status model.AssetStatus) ([]model.Asset, error) {
	const q = `SELECT ` + cols + ` FROM assets WHERE status=$1 ORDER BY created_at DESC`
	return r.listQuery(ctx, q, status)
}

func (r *repo) ListByStatusAndType(ctx context.Context, status model.AssetStatus, t model.AssetType) ([]model.Asset, error) {
	const q = `SELECT ` + cols + ` FROM assets WHERE status=$1 AND type=$2 ORDER BY created_at DESC`
	return r.listQuery(ctx, q, status, t)
}

func (r *repo) ListByTag(ctx context.Context, tag string) ([]model.Asset, error) {
	// Case-insensitive substring match against the comma-joined tags column.
	const q = `SELECT ` + cols + ` FROM assets WHERE tags ILIKE '%' || $1 || '%' ORDER BY created_at DESC`
	return r.listQuery(ctx, q, tag)
}

func (r *repo) MarkApproved(ctx context.Context, id, adminID int64, at time.Time) error {
	const q = `
	UPDATE assets
	SET status='APPROVED', approved_by=$2, approved_at=$3
	WHERE id=$1 AND status='PENDING'`
	res, err := r.db.ExecContext(ctx, q, id, adminID, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *repo) MarkRejected(ctx context.Context, id, adminID int64, reason string, at time.Time) error {
	const q = `
	UPDATE assets
	SET status='REJECTED', rejection_reason=$2, approved_by=$3, approved_at=$4
	WHERE id=$1 AND status='PENDING'`
	res, err := r.db.ExecContext(ctx, q, id, reason, adminID, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotPending
	}
	return nil
}
