// model/asset.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetStatus string

const (
	AssetPending  AssetStatus = "PENDING"
	AssetApproved AssetStatus = "APPROVED"
	AssetRejected AssetStatus = "REJECTED"
)

type AssetType string

const (
	AssetFree AssetType = "FREE"
	AssetPaid AssetType = "PAID"
)

func (t AssetType) Valid() bool { return t == AssetFree || t == AssetPaid }

type Asset struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	FileURL     string           `json:"file_url"`
	Type        AssetType        `json:"type"`
	Price       *decimal.Decimal `json:"price,omitempty"` // nil unless Type == PAID
	Tags        string           `json:"tags"`
	FileType    string           `json:"file_type"` // upper-cased extension, e.g. "EPS"
	Status      AssetStatus      `json:"status"`
	DesignerID  int64            `json:"designer_id"`
	Approval
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// UploadAssetReq is the multipart form metadata accompanying the file.
// swagger:model UploadAssetReq
type UploadAssetReq struct {
	Name        string `form:"name" validate:"required,max=200"`
	Description string `form:"description" validate:"omitempty,max=2000"`
	Type        string `form:"type" validate:"required,oneof=FREE PAID"`
	Price       string `form:"price" validate:"omitempty"`
	Tags        string `form:"tags" validate:"omitempty,max=500"`
}

// RejectAssetReq carries the admin's rejection reason.
// swagger:model RejectAssetReq
type RejectAssetReq struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
