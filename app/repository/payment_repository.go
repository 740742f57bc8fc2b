package repository

import (
	"github.com/VoxFoxApp/VoxFox/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create stores a new payment request
func (r *paymentRepository) Create(p *models.PaymentRequest) error {
	return r.db.Create(p).Error
}

// GetByUUID retrieves a payment request by its public UUID
func (r *paymentRepository) GetByUUID(uuid string) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	if err := r.db.Where("uuid = ?", uuid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns a user's payment requests newest-first
func (r *paymentRepository) GetByUserID(userID uint) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Update updates an existing payment request
func (r *paymentRepository) Update(p *models.PaymentRequest) error {
	return r.db.Save(p).Error
}

// ListByStatus returns payment requests in one status, oldest-first
func (r *paymentRepository) ListByStatus(status string, offset, limit int) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	q := r.db.Where("status = ?", status).Order("created_at ASC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// Count returns the total number of payment requests
func (r *paymentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentRequest{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of payment requests in one status
func (r *paymentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumVerifiedAmount sums the amounts of all verified payments
func (r *paymentRepository) SumVerifiedAmount() (int64, error) {
	var total int64
	err := r.db.Model(&models.PaymentRequest{}).
		Where("status = ?", models.PAYMENT_STATUS_VERIFIED).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
