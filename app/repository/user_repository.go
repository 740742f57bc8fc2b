package repository

import (
	"fmt"
	"strings"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByActivationToken retrieves a user by their activation token
func (r *userRepository) GetByActivationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("activation_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAPIKeyHash resolves an active API key hash to its user and user settings.
func (r *userRepository) GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, nil, gorm.ErrRecordNotFound
	}
	var settings models.UserSettings
	query := r.db.Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed)
	if err := query.First(&settings).Error; err != nil {
		return nil, nil, err
	}
	var user models.User
	if err := r.db.First(&user, settings.UserID).Error; err != nil {
		return nil, nil, err
	}
	return &user, &settings, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user by their ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// List retrieves a paginated list of users
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Search searches for users by name or email
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ?", searchPattern, searchPattern).Find(&users).Error
	return users, err
}

// GetWithStats retrieves users with their plan row and usage counts
func (r *userRepository) GetWithStats(offset, limit int) ([]UserWithStats, error) {
	users, err := r.List(offset, limit)
	if err != nil {
		return nil, err
	}
	return r.attachStats(users)
}

// SearchWithStats searches users and attaches plan and usage counts
func (r *userRepository) SearchWithStats(query string) ([]UserWithStats, error) {
	users, err := r.Search(query)
	if err != nil {
		return nil, err
	}
	return r.attachStats(users)
}

func (r *userRepository) attachStats(users []models.User) ([]UserWithStats, error) {
	out := make([]UserWithStats, 0, len(users))
	for _, user := range users {
		plan, err := models.GetOrCreateUserPlan(r.db, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load plan for user %d: %w", user.ID, err)
		}

		var genCount int64
		if err := r.db.Model(&models.VoiceGeneration{}).Where("user_id = ?", user.ID).Count(&genCount).Error; err != nil {
			return nil, err
		}
		var payCount int64
		if err := r.db.Model(&models.PaymentRequest{}).Where("user_id = ?", user.ID).Count(&payCount).Error; err != nil {
			return nil, err
		}

		out = append(out, UserWithStats{
			User:            user,
			Plan:            *plan,
			GenerationCount: genCount,
			PaymentCount:    payCount,
		})
	}
	return out, nil
}

// GetPlan returns the plan row for a user, creating free defaults if missing
func (r *userRepository) GetPlan(userID uint) (*models.UserPlan, error) {
	return models.GetOrCreateUserPlan(r.db, userID)
}

// SavePlan persists a plan row
func (r *userRepository) SavePlan(up *models.UserPlan) error {
	return r.db.Save(up).Error
}
