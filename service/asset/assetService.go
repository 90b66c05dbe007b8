package assetsvc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"gamehub/model"
	assetrepo "gamehub/repository/asset"
	storagerepo "gamehub/repository/storage"
	userrepo "gamehub/repository/user"
	"gamehub/service/apperr"

	"github.com/shopspring/decimal"
)

var (
	allowedContentTypes = []string{"image/eps+xml", "audio/mpeg", "audio/mp3"}
	allowedExtensions   = []string{".eps", ".mp3"}
)

// UploadFile is the incoming multipart file, decoupled from echo so the
// service can be exercised without an HTTP request.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// AssetResponse is the public shape of an asset, carrying the designer's
// display name alongside the record.
type AssetResponse struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	FileURL         string            `json:"file_url"`
	Type            model.AssetType   `json:"type"`
	Price           *decimal.Decimal  `json:"price,omitempty"`
	Tags            string            `json:"tags"`
	FileType        string            `json:"file_type"`
	Status          model.AssetStatus `json:"status"`
	DesignerID      int64             `json:"designer_id"`
	DesignerName    string            `json:"designer_name"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type Service interface {
	Upload(ctx context.Context, designerID int64, req model.UploadAssetReq, file UploadFile) (*AssetResponse, error)
	Mine(ctx context.Context, designerID int64) ([]AssetResponse, error)
	Public(ctx context.Context) ([]AssetResponse, error)
	ByType(ctx context.Context, t string) ([]AssetResponse, error)
	SearchByTag(ctx context.Context, tag string) ([]AssetResponse, error)
	Pending(ctx context.Context, adminID int64) ([]AssetResponse, error)
	Approve(ctx context.Context, assetID, adminID int64) (*AssetResponse, error)
	Reject(ctx context.Context, assetID, adminID int64, reason string) (*AssetResponse, error)
}

type service struct {
	ar  assetrepo.Repo
	ur  userrepo.Repo
	st  storagerepo.Repo
	log *slog.Logger
}

func New(ar assetrepo.Repo, ur userrepo.Repo, st storagerepo.Repo, log *slog.Logger) Service {
	return &service{ar: ar, ur: ur, st: st, log: log}
}

func (s *service) requireRole(ctx context.Context, userID int64, role model.UserRole) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrPermissionDenied, "user not found")
		}
		return nil, err
	}
	if u.Role != role {
		return nil, apperr.Newf(apperr.ErrPermissionDenied, "requires %s role", role)
	}
	return u, nil
}

func fileExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i == -1 {
		return ""
	}
	return filename[i:]
}

func validFileType(f UploadFile) bool {
	ext := strings.ToLower(fileExtension(f.Filename))
	for _, e := range allowedExtensions {
		if ext == e {
			return true
		}
	}
	ct := strings.ToLower(f.ContentType)
	for _, c := range allowedContentTypes {
		if ct == c {
			return true
		}
	}
	return false
}

func (s *service) Upload(ctx context.Context, designerID int64, req model.UploadAssetReq, file UploadFile) (*AssetResponse, error) {
	designer, err := s.requireRole(ctx, designerID, model.RoleDesigner)
	if err != nil {
		return nil, err
	}
	if designer.Status != model.UserApproved {
		return nil, apperr.New(apperr.ErrPermissionDenied, "your account is not approved yet")
	}

	if !validFileType(file) {
		return nil, apperr.New(apperr.ErrValidation, "only EPS and MP3 files are allowed")
	}

	assetType := model.AssetType(req.Type)
	var price *decimal.Decimal
	if assetType == model.AssetPaid {
		p, err := decimal.NewFromString(req.Price)
		if err != nil || !p.IsPositive() {
			return nil, apperr.New(apperr.ErrValidation, "price must be greater than 0 for paid assets")
		}
		price = &p
	}

	body, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer body.Close()

	fileURL, err := s.st.Upload(ctx, file.Filename, file.ContentType, body)
	if err != nil {
		s.log.Error("asset file upload failed", "designer_id", designerID, "err", err)
		return nil, err
	}

	asset := &model.Asset{
		Name:        req.Name,
		Description: req.Description,
		FileURL:     fileURL,
		Type:        assetType,
		Price:       price,
		Tags:        req.Tags,
		FileType:    strings.ToUpper(strings.TrimPrefix(fileExtension(file.Filename), ".")),
		Status:      model.AssetPending,
		DesignerID:  designerID,
	}
	if err := s.ar.Insert(ctx, asset); err != nil {
		s.log.Error("asset save failed", "name", asset.Name, "err", err)
		return nil, errors.New("error saving asset")
	}

	s.log.Info("asset uploaded", "id", asset.ID, "name", asset.Name, "type", asset.Type)
	return s.toResponse(ctx, asset, designer), nil
}

func (s *service) Mine(ctx context.Context, designerID int64) ([]AssetResponse, error) {
	designer, err := s.requireRole(ctx, designerID, model.RoleDesigner)
	if err != nil {
		return nil, err
	}
	assets, err := s.ar.ListByDesigner(ctx, designerID)
	if err != nil {
		return nil, err
	}
	out := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		out = append(out, *s.toResponse(ctx, &assets[i], designer))
	}
	return out, nil
}

func (s *service) Public(ctx context.Context) ([]AssetResponse, error) {
	assets, err := s.ar.ListByStatus(ctx, model.AssetApproved)
	if err != nil {
		return nil, err
	}
	return s.mapList(ctx, assets), nil
}

func (s *service) ByType(ctx context.Context, t string) ([]AssetResponse, error) {
	assetType := model.AssetType(strings.ToUpper(t))
	if !assetType.Valid() {
		return nil, apperr.New(apperr.ErrValidation, "unknown asset type")
	}
	assets, err := s.ar.ListByStatusAndType(ctx, model.AssetApproved, assetType)
	if err != nil {
		return nil, err
	}
	return s.mapList(ctx, assets), nil
}

func (s *service) SearchByTag(ctx context.Context, tag string) ([]AssetResponse, error) {
	assets, err := s.ar.ListByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	// Tag search hits all statuses in storage; only approved ones are public.
	approved := assets[:0]
	for _, a := range assets {
		if a.Status == model.AssetApproved {
			approved = append(approved, a)
		}
	}
	return s.mapList(ctx, approved), nil
}

func (s *service) Pending(ctx context.Context, adminID int64) ([]AssetResponse, error) {
	if _, err := s.requireRole(ctx, adminID, model.RoleAdmin); err != nil {
		return nil, err
	}
	assets, err := s.ar.ListByStatus(ctx, model.AssetPending)
	if err != nil {
		return nil, err
	}
	return s.mapList(ctx, assets), nil
}

func (s *service) decide(ctx context.Context, assetID, adminID int64, decide func(at time.Time) error) (*AssetResponse, error) {
	if _, err := s.requireRole(ctx, adminID, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.ar.ByID(ctx, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, "asset not found")
		}
		return nil, err
	}

	if err := decide(time.Now().UTC()); err != nil {
		if errors.Is(err, assetrepo.ErrNotPending) {
			return nil, apperr.New(apperr.ErrInvalidState, "asset is not pending approval")
		}
		return nil, err
	}

	asset, err := s.ar.ByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	// The verdict already landed; a dangling designer reference must not
	// turn the decision into an empty response.
	if res := s.toResponseLookup(ctx, asset); res != nil {
		return res, nil
	}
	return s.toResponse(ctx, asset, &model.User{}), nil
}

func (s *service) Approve(ctx context.Context, assetID, adminID int64) (*AssetResponse, error) {
	return s.decide(ctx, assetID, adminID, func(at time.Time) error {
		return s.ar.MarkApproved(ctx, assetID, adminID, at)
	})
}

func (s *service) Reject(ctx context.Context, assetID, adminID int64, reason string) (*AssetResponse, error) {
	return s.decide(ctx, assetID, adminID, func(at time.Time) error {
		return s.ar.MarkRejected(ctx, assetID, adminID, reason, at)
	})
}

func (s *service) toResponse(_ context.Context, a *model.Asset, designer *model.User) *AssetResponse {
	return &AssetResponse{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		FileURL:         a.FileURL,
		Type:            a.Type,
		Price:           a.Price,
		Tags:            a.Tags,
		FileType:        a.FileType,
		Status:          a.Status,
		DesignerID:      a.DesignerID,
		DesignerName:    designer.FullName,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
	}
}

// toResponseLookup resolves the designer; a missing designer yields nil and
// the row is dropped from list output rather than failing the whole call.
func (s *service) toResponseLookup(ctx context.Context, a *model.Asset) *AssetResponse {
	designer, err := s.ur.ByID(ctx, a.DesignerID)
	if err != nil {
		s.log.Warn("asset has no designer, skipping", "asset_id", a.ID, "designer_id", a.DesignerID)
		return nil
	}
	return s.toResponse(ctx, a, designer)
}

func (s *service) mapList(ctx context.Context, assets []model.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		if r := s.toResponseLookup(ctx, &assets[i]); r != nil {
			out = append(out, *r)
		}
	}
	return out
}
