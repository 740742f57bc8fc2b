package repository

import (
	"time"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	GetWithStats(offset, limit int) ([]UserWithStats, error)
	SearchWithStats(query string) ([]UserWithStats, error)
	GetPlan(userID uint) (*models.UserPlan, error)
	SavePlan(up *models.UserPlan) error
}

// GenerationRepository defines the interface for voice generation records
type GenerationRepository interface {
	Create(gen *models.VoiceGeneration) error
	GetByUUID(uuid string) (*models.VoiceGeneration, error)
	GetByUserID(userID uint, offset, limit int) ([]models.VoiceGeneration, error)
	Update(gen *models.VoiceGeneration) error
	Delete(id uint) error
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
	CountSynthetic() (int64, error)
	TotalBytes() (int64, error)
	IncrementDownloadCount(id uint, delta int) error
	GetRecent(limit int) ([]models.VoiceGeneration, error)
	GetDailyCounts(startDate, endDate time.Time) ([]DailyCount, error)
}

// PaymentRepository defines the interface for payment request records
type PaymentRepository interface {
	Create(p *models.PaymentRequest) error
	GetByUUID(uuid string) (*models.PaymentRequest, error)
	GetByUserID(userID uint) ([]models.PaymentRequest, error)
	Update(p *models.PaymentRequest) error
	ListByStatus(status string, offset, limit int) ([]models.PaymentRequest, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	SumVerifiedAmount() (int64, error)
}

// SettingRepository defines the interface for application settings
type SettingRepository interface {
	Get() (*models.AppSettings, error)
	Save(settings *models.AppSettings) error
	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// QueueRepository defines the interface for cache/queue operations
type QueueRepository interface {
	GetAllKeys() ([]string, error)
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKey(key string) (int64, error)
	GetListLength(key string) (int64, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// UserWithStats represents a user with plan and usage statistics
type UserWithStats struct {
	User            models.User
	Plan            models.UserPlan
	GenerationCount int64
	PaymentCount    int64
}

// DailyCount is a per-day aggregate used for admin charts
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Generation GenerationRepository
	Payment    PaymentRepository
	Setting    SettingRepository
	Queue      QueueRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Generation: NewGenerationRepository(db),
		Payment:    NewPaymentRepository(db),
		Setting:    NewSettingRepository(db),
		Queue:      NewQueueRepository(),
	}
}
