package payment

import (
	"time"

	paymentsvc "gamehub/service/payment"

	"github.com/shopspring/decimal"
)

// DepositResponse is the wire shape for a deposit request, owner and
// approver details included.
// swagger:model DepositResponse
type DepositResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	UserEmail       string          `json:"user_email"`
	UserName        string          `json:"user_name"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	TransactionNote string          `json:"transaction_note"`
	AdminNote       *string         `json:"admin_note,omitempty"`
	ApprovedByID    *int64          `json:"approved_by_id,omitempty"`
	ApprovedByEmail *string         `json:"approved_by_email,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Page mirrors the paginated listing shape: content plus paging totals.
type Page struct {
	Content       []DepositResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int64             `json:"total_pages"`
}

func toResponse(r *paymentsvc.DepositRow) DepositResponse {
	return DepositResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		UserEmail:       r.UserEmail,
		UserName:        r.UserName,
		Amount:          r.Amount,
		Status:          string(r.Status),
		TransactionNote: r.TransactionNote,
		AdminNote:       r.Note,
		ApprovedByID:    r.ApprovedByID,
		ApprovedByEmail: r.ApprovedByEmail,
		ApprovedAt:      r.ApprovedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toPage(rows []paymentsvc.DepositRow, page, size int, total int64) Page {
	content := make([]DepositResponse, 0, len(rows))
	for i := range rows {
		content = append(content, toResponse(&rows[i]))
	}
	totalPages := int64(0)
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	return Page{Content: content, Page: page, Size: size, TotalElements: total, TotalPages: totalPages}
}
