package repository

import (
	"time"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"gorm.io/gorm"
)

// generationRepository implements the GenerationRepository interface
type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new voice generation repository instance
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

// Create stores a new generation record
func (r *generationRepository) Create(gen *models.VoiceGeneration) error {
	return r.db.Create(gen).Error
}

// GetByUUID retrieves a generation record by its public UUID
func (r *generationRepository) GetByUUID(uuid string) (*models.VoiceGeneration, error) {
	var gen models.VoiceGeneration
	if err := r.db.Where("uuid = ?", uuid).First(&gen).Error; err != nil {
		return nil, err
	}
	return &gen, nil
}

// GetByUserID retrieves a user's generation history newest-first
func (r *generationRepository) GetByUserID(userID uint, offset, limit int) ([]models.VoiceGeneration, error) {
	var gens []models.VoiceGeneration
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&gens).Error
	return gens, err
}

// Update updates an existing generation record
func (r *generationRepository) Update(gen *models.VoiceGeneration) error {
	return r.db.Save(gen).Error
}

// Delete soft deletes a generation record by ID
func (r *generationRepository) Delete(id uint) error {
	return r.db.Delete(&models.VoiceGeneration{}, id).Error
}

// Count returns the total number of generation records
func (r *generationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.VoiceGeneration{}).Count(&count).Error
	return count, err
}

// CountByUserID returns the number of generations for one user
func (r *generationRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.VoiceGeneration{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountSynthetic returns how many generations came from the offline fallback
func (r *generationRepository) CountSynthetic() (int64, error) {
	var count int64
	err := r.db.Model(&models.VoiceGeneration{}).Where("synthetic = ?", true).Count(&count).Error
	return count, err
}

// TotalBytes sums the audio payload sizes across all generations
func (r *generationRepository) TotalBytes() (int64, error) {
	var total int64
	err := r.db.Model(&models.VoiceGeneration{}).
		Select("COALESCE(SUM(byte_size), 0)").
		Scan(&total).Error
	return total, err
}

// IncrementDownloadCount adds delta to a generation's download counter
func (r *generationRepository) IncrementDownloadCount(id uint, delta int) error {
	return r.db.Model(&models.VoiceGeneration{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", delta)).Error
}

// GetRecent returns the newest generation records across all users
func (r *generationRepository) GetRecent(limit int) ([]models.VoiceGeneration, error) {
	var gens []models.VoiceGeneration
	err := r.db.Order("created_at DESC").Limit(limit).Find(&gens).Error
	return gens, err
}

// GetDailyCounts returns per-day generation counts for admin charts
func (r *generationRepository) GetDailyCounts(startDate, endDate time.Time) ([]DailyCount, error) {
	var out []DailyCount
	err := r.db.Model(&models.VoiceGeneration{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&out).Error
	return out, err
}
