package payments

import (
	"github.com/VoxFoxApp/VoxFox/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the payment service.
type Repository interface {
	CreatePayment(p *models.PaymentRequest) error
	GetPaymentByUUID(uuid string) (*models.PaymentRequest, error)
	FindPendingByTrxID(trxID string) (*models.PaymentRequest, error)
	SavePayment(p *models.PaymentRequest) error
	ListPendingPayments(limit int) ([]models.PaymentRequest, error)
	ListPaymentsByUser(userID uint) ([]models.PaymentRequest, error)
	GetOrCreateUserPlan(userID uint) (*models.UserPlan, error)
	SavePlan(up *models.UserPlan) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreatePayment(p *models.PaymentRequest) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) GetPaymentByUUID(uuid string) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	if err := r.db.Where("uuid = ?", uuid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) FindPendingByTrxID(trxID string) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	err := r.db.
		Where("trx_id = ? AND status = ?", trxID, models.PAYMENT_STATUS_PENDING).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) SavePayment(p *models.PaymentRequest) error {
	return r.db.Save(p).Error
}

func (r *gormRepository) ListPendingPayments(limit int) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	q := r.db.Where("status = ?", models.PAYMENT_STATUS_PENDING).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormRepository) ListPaymentsByUser(userID uint) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormRepository) GetOrCreateUserPlan(userID uint) (*models.UserPlan, error) {
	return models.GetOrCreateUserPlan(r.db, userID)
}

func (r *gormRepository) SavePlan(up *models.UserPlan) error {
	return r.db.Save(up).Error
}
