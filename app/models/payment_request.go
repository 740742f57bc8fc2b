package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PAYMENT_STATUS_PENDING  = "pending"
	PAYMENT_STATUS_VERIFIED = "verified"
	PAYMENT_STATUS_REJECTED = "rejected"
)

// PaymentRequest is a manually-submitted mobile-wallet payment awaiting
// operator review. A request transitions exactly once, pending to verified
// or rejected; verification applies the matching plan to the user.
type PaymentRequest struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UUID       string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID     uint           `gorm:"index" json:"user_id" validate:"required"`
	Amount     int            `json:"amount" validate:"required,gt=0"`
	TrxID      string         `gorm:"type:varchar(100)" json:"trx_id" validate:"required,min=4,max=100"`
	Status     string         `gorm:"type:varchar(50);default:'pending';index" json:"status" validate:"oneof=pending verified rejected"`
	Note       string         `gorm:"type:text" json:"note" validate:"max=500"`
	ResolvedBy uint           `gorm:"default:0" json:"resolved_by"`
	ResolvedAt *time.Time     `gorm:"type:timestamp;default:null" json:"resolved_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *PaymentRequest) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PAYMENT_STATUS_PENDING
	}
	return nil
}

func (p *PaymentRequest) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// IsResolved reports whether the request already left the pending state.
func (p *PaymentRequest) IsResolved() bool {
	return p.Status != PAYMENT_STATUS_PENDING
}
