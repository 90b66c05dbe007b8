// model/payment.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositStatus string

const (
	DepositPending  DepositStatus = "PENDING"
	DepositApproved DepositStatus = "APPROVED"
	DepositRejected DepositStatus = "REJECTED"
)

// Approval is the terminal verdict recorded on deposit requests and assets:
// who decided, when, and an optional note.
type Approval struct {
	ApprovedByID *int64     `json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	Note         *string    `json:"admin_note,omitempty"`
}

type DepositRequest struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionNote string          `json:"transaction_note"`
	Status          DepositStatus   `json:"status"`
	Approval
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentScope tags who a payment-info record belongs to: the single global
// admin record, or one specific user. Maps to a nullable user_id column.
type PaymentScope struct {
	UserID int64
	Global bool
}

func GlobalScope() PaymentScope           { return PaymentScope{Global: true} }
func UserScope(userID int64) PaymentScope { return PaymentScope{UserID: userID} }

type PaymentInfo struct {
	ID                int64     `json:"id"`
	UserID            *int64    `json:"user_id,omitempty"` // nil = global admin record
	AccountNumber     string    `json:"account_number"`
	BankName          string    `json:"bank_name"`
	AccountHolderName string    `json:"account_holder_name"`
	QRCodeURL         string    `json:"qr_code_url"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LedgerEntryType string

const LedgerDepositApproved LedgerEntryType = "DEPOSIT_APPROVED"

type LedgerEntry struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	RefTable     string          `json:"ref_table"`
	RefID        *int64          `json:"ref_id,omitempty"`
	EntryType    LedgerEntryType `json:"entry_type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PaymentInfoReq is the bank/QR account payload shown to depositors.
// swagger:model PaymentInfoReq
type PaymentInfoReq struct {
	AccountNumber     string `json:"accountNumber" validate:"required"`
	BankName          string `json:"bankName" validate:"required"`
	AccountHolderName string `json:"accountHolderName" validate:"required"`
	QRCodeURL         string `json:"qrCodeUrl" validate:"omitempty,url"`
}

// CreateDepositReq is the developer's deposit claim payload. Amount is a
// string so the decimal survives JSON intact.
// swagger:model CreateDepositReq
type CreateDepositReq struct {
	Amount          string `json:"amount" validate:"required"`
	TransactionNote string `json:"transactionNote" validate:"omitempty,max=500"`
}

// DepositApprovalReq is the admin verdict payload.
// swagger:model DepositApprovalReq
type DepositApprovalReq struct {
	Status    string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	AdminNote string `json:"adminNote" validate:"omitempty,max=500"`
}
