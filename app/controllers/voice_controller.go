package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/cache"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/constants"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/database"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/env"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/jobqueue"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/metrics/counter"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/quota"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/s3archive"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/security"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/usercontext"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/utils"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/voiceprovider"
)

const (
	// AudioCacheKeyPrefix keys the redis blob holding freshly generated audio.
	AudioCacheKeyPrefix = "generation:audio:"

	// AudioCacheTTL bounds how long un-archived audio stays downloadable.
	AudioCacheTTL = 24 * time.Hour

	// DownloadTokenTTL bounds the signed download link lifetime.
	DownloadTokenTTL = 24 * time.Hour
)

type generateRequest struct {
	Text          string                      `json:"text"`
	VoiceID       string                      `json:"voice_id"`
	VoiceSettings *voiceprovider.VoiceSettings `json:"voice_settings"`
}

// HandleListVoices returns the voice catalog. The provider client falls
// back to the builtin demo catalog when the vendor is unreachable.
func HandleListVoices(c *fiber.Ctx) error {
	voices := getVoiceClient().ListVoices(c.Context())
	return c.JSON(fiber.Map{
		"voices": voices,
		"count":  len(voices),
	})
}

// HandleGetVoiceSettings returns the tunable synthesis parameters for one
// voice, falling back to the vendor defaults when unreachable.
func HandleGetVoiceSettings(c *fiber.Ctx) error {
	voiceID := c.Params("id")
	if voiceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing voice id"})
	}

	settings := getVoiceClient().GetVoiceSettings(c.Context(), voiceID)
	return c.JSON(settings)
}

// HandleGenerateVoice runs one synthesis request under the quota policy.
// Text is validated before a quota unit is reserved, so refused requests
// never touch the counter; failures after the reservation release it.
func HandleGenerateVoice(c *fiber.Ctx) error {
	if !models.GetAppSettings().IsGenerationEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "generation_disabled", "message": "Voice generation is temporarily disabled"})
	}

	userID := usercontext.GetUserID(c)

	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if err := voiceprovider.ValidateText(req.Text); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid_text", "message": err.Error()})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Account not found"})
	}

	up, err := repos.User.GetPlan(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load plan"})
	}

	db := database.GetDB()
	us, _ := models.GetOrCreateUserSettings(db, userID)

	voiceID := req.VoiceID
	if voiceID == "" && us != nil {
		voiceID = us.DefaultVoiceID
	}

	client := getVoiceClient()
	if voiceID == "" {
		voiceID = voiceprovider.BuiltinVoices()[0].ID
	}

	settings := voiceprovider.DefaultVoiceSettings()
	if req.VoiceSettings != nil {
		settings = req.VoiceSettings.Clamped()
	}

	qs := getQuotaService()
	if err := qs.Reserve(user, up); err != nil {
		switch {
		case errors.Is(err, quota.ErrQuotaExceeded):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "quota_exceeded", "message": "Generation limit reached for the current plan"})
		case errors.Is(err, quota.ErrAccountDisabled):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account_disabled", "message": "This account has been disabled"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Quota check failed"})
		}
	}

	audio, err := client.GenerateSpeech(c.Context(), req.Text, voiceID, settings)
	if err != nil {
		// Only validation errors reach here; vendor failures resolve to
		// the synthetic fallback inside the client.
		qs.Release(up)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid_text", "message": err.Error()})
	}

	gen := &models.VoiceGeneration{
		UserID:    userID,
		VoiceID:   voiceID,
		VoiceName: voiceNameFor(client, c, voiceID),
		Text:      req.Text,
		CharCount: utf8.RuneCountInString(req.Text),
		Format:    utils.SniffAudioExtension(audio.Data),
		Synthetic: audio.Synthetic,
		ByteSize:  len(audio.Data),
	}

	if err := repos.Generation.Create(gen); err != nil {
		qs.Release(up)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record generation"})
	}

	cacheKey := AudioCacheKeyPrefix + gen.UUID
	if err := cache.Set(cacheKey, audio.Data, AudioCacheTTL); err != nil {
		// The record exists but the audio is gone. Surface the failure
		// instead of handing out a dead download link.
		qs.Release(up)
		_ = repos.Generation.Delete(gen.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store audio"})
	}

	maybeEnqueueArchive(gen, us, cacheKey)

	token, err := security.GenerateDownloadToken(userID, gen.UUID, DownloadTokenTTL, downloadTokenSecret())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to sign download link"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":         gen.UUID,
		"voice_id":     gen.VoiceID,
		"voice_name":   gen.VoiceName,
		"format":       gen.Format,
		"synthetic":    gen.Synthetic,
		"char_count":   gen.CharCount,
		"byte_size":    gen.ByteSize,
		"created_at":   gen.CreatedAt,
		"remaining":    qs.Remaining(up),
		"download_url": fmt.Sprintf("%s/%s", constants.DownloadRoute, token),
	})
}

// HandleListGenerations returns the caller's generation history, newest first.
func HandleListGenerations(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	repos := repository.GetGlobalRepositories()
	gens, err := repos.Generation.GetByUserID(userID, (page-1)*perPage, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load generations"})
	}

	total, _ := repos.Generation.CountByUserID(userID)

	items := make([]fiber.Map, 0, len(gens))
	for i := range gens {
		g := &gens[i]
		item := fiber.Map{
			"uuid":           g.UUID,
			"voice_id":       g.VoiceID,
			"voice_name":     g.VoiceName,
			"text":           g.Text,
			"char_count":     g.CharCount,
			"format":         g.Format,
			"synthetic":      g.Synthetic,
			"byte_size":      g.ByteSize,
			"archived":       g.Archived,
			"download_count": g.DownloadCount,
			"created_at":     g.CreatedAt,
		}
		if token, err := security.GenerateDownloadToken(userID, g.UUID, DownloadTokenTTL, downloadTokenSecret()); err == nil {
			item["download_url"] = fmt.Sprintf("%s/%s", constants.DownloadRoute, token)
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{
		"generations": items,
		"page":        page,
		"per_page":    perPage,
		"total":       total,
	})
}

// HandleDeleteGeneration removes one of the caller's generations. The cached
// audio is dropped right away; an archived copy is purged by a queue job.
func HandleDeleteGeneration(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repos := repository.GetGlobalRepositories()
	gen, err := repos.Generation.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Generation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load generation"})
	}

	if gen.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "This generation belongs to another account"})
	}

	if err := cache.Delete(AudioCacheKeyPrefix + gen.UUID); err != nil {
		// The key expires on its own; the record removal still proceeds.
		fmt.Printf("failed to drop cached audio for generation %s: %v\n", gen.UUID, err)
	}

	if shouldPurgeArchive(gen) {
		if _, err := jobqueue.GetManager().GetQueue().EnqueueS3DeleteJob(gen.ID, gen.UUID, gen.ArchiveKey); err != nil {
			fmt.Printf("failed to enqueue archive delete job for generation %s: %v\n", gen.UUID, err)
		}
	}

	if err := repos.Generation.Delete(gen.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete generation"})
	}

	return c.JSON(fiber.Map{"message": "Generation deleted"})
}

// shouldPurgeArchive reports whether a generation still owns an archived
// object that has to be removed alongside its record.
func shouldPurgeArchive(gen *models.VoiceGeneration) bool {
	return gen.Archived && gen.ArchiveKey != ""
}

// HandleDownloadGeneration streams the audio named by a signed token.
// Fresh audio is served from redis; archived audio is pulled from S3 once
// the cache entry has expired.
func HandleDownloadGeneration(c *fiber.Ctx) error {
	token := c.Params("token")
	claims, err := security.VerifyDownloadToken(token, downloadTokenSecret())
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Invalid or expired download link"})
	}

	repos := repository.GetGlobalRepositories()
	gen, err := repos.Generation.GetByUUID(claims.GenerationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Generation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load generation"})
	}

	if gen.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "This link belongs to another account"})
	}

	data, err := cache.GetBytes(AudioCacheKeyPrefix + gen.UUID)
	if err != nil || len(data) == 0 {
		data, err = fetchArchivedAudio(gen)
		if err != nil {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "gone", "message": "Audio is no longer available"})
		}
	}

	if err := counter.AddGenerationDownload(gen.ID); err != nil {
		// Counters are best effort; the download still proceeds.
		fmt.Printf("failed to buffer download counter for generation %d: %v\n", gen.ID, err)
	}

	ext := gen.Format
	if ext == "" {
		ext = utils.SniffAudioExtension(data)
	}
	filename := utils.DownloadFilename(gen.VoiceName, gen.Text, gen.CreatedAt, ext)

	c.Set(fiber.HeaderContentType, utils.AudioMIMEType(ext))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func fetchArchivedAudio(gen *models.VoiceGeneration) ([]byte, error) {
	if !gen.Archived || gen.ArchiveKey == "" {
		return nil, errors.New("audio not archived")
	}

	cfg, err := s3archive.LoadConfig()
	if err != nil || !cfg.IsEnabled() {
		return nil, errors.New("archive storage not configured")
	}

	client, err := s3archive.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client.DownloadBytes(gen.ArchiveKey)
}

func maybeEnqueueArchive(gen *models.VoiceGeneration, us *models.UserSettings, cacheKey string) {
	if !models.GetAppSettings().IsArchiveEnabled() {
		return
	}
	if us == nil || !us.ArchiveAudio {
		return
	}

	if _, err := jobqueue.GetManager().GetQueue().EnqueueS3ArchiveJob(gen.ID, gen.UUID, cacheKey, gen.Format); err != nil {
		fmt.Printf("failed to enqueue archive job for generation %s: %v\n", gen.UUID, err)
	}
}

func voiceNameFor(client *voiceprovider.Client, c *fiber.Ctx, voiceID string) string {
	for _, v := range client.ListVoices(c.Context()) {
		if v.ID == voiceID {
			return v.Name
		}
	}
	return strings.TrimSpace(voiceID)
}

func downloadTokenSecret() string {
	return env.GetEnv("DOWNLOAD_TOKEN_SECRET", env.GetEnv("APP_SECRET", "voxfox-dev-secret"))
}
