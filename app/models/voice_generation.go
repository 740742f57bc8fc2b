package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoiceGeneration is the append-only audit record written after each
// successful generation. The audio itself is ephemeral; only metadata is
// kept, plus redis-buffered download counters flushed into DownloadCount.
type VoiceGeneration struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UUID          string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID        uint           `gorm:"index" json:"user_id"`
	VoiceID       string         `gorm:"type:varchar(100)" json:"voice_id"`
	VoiceName     string         `gorm:"type:varchar(150)" json:"voice_name"`
	Text          string         `gorm:"type:text" json:"text"`
	CharCount     int            `json:"char_count"`
	Format        string         `gorm:"type:varchar(10)" json:"format"` // wav or mp3
	Synthetic     bool           `gorm:"default:false" json:"synthetic"` // fallback audio, not vendor audio
	ByteSize      int            `json:"byte_size"`
	Archived      bool           `gorm:"default:false" json:"archived"`
	ArchiveKey    string         `gorm:"type:varchar(255);default:''" json:"-"`
	DownloadCount int            `gorm:"default:0" json:"download_count"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *VoiceGeneration) BeforeCreate(tx *gorm.DB) error {
	if g.UUID == "" {
		g.UUID = uuid.New().String()
	}
	return nil
}
