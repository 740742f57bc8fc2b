package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/database"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/plans"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/usercontext"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/utils"
)

type settingsUpdateRequest struct {
	DefaultVoiceID *string `json:"default_voice_id"`
	ArchiveAudio   *bool   `json:"archive_audio"`
}

// HandleGetAccount returns the account summary with plan and quota state.
func HandleGetAccount(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Account not found"})
	}

	up, err := repo.GetPlan(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load plan"})
	}

	remaining := getQuotaService().Remaining(up)
	limit := plans.FromStored(up.GenerationLimit)

	us, _ := models.GetOrCreateUserSettings(database.GetDB(), userID)

	resp := fiber.Map{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"avatar_url":    avatarURL(user),
		"status":        user.Status,
		"is_admin":      user.Role == models.ROLE_ADMIN,
		"created_at":    user.CreatedAt,
		"last_login_at": user.LastLoginAt,
		"plan": fiber.Map{
			"account_status":   up.AccountStatus,
			"plan_name":        planDisplayName(up),
			"generation_limit": limit,
			"voices_generated": up.VoicesGenerated,
			"remaining":        remaining,
			"unlimited":        limit.IsUnlimited(),
			"plan_expiry":      formatTimePtr(up.PlanExpiry),
		},
	}

	if us != nil {
		resp["settings"] = fiber.Map{
			"default_voice_id":   us.DefaultVoiceID,
			"archive_audio":      us.ArchiveAudio,
			"api_key_prefix":     us.APIKeyPrefix,
			"api_key_active":     us.HasActiveAPIKey(),
			"api_key_created_at": formatTimePtr(us.APIKeyCreatedAt),
		}
	}

	return c.JSON(resp)
}

// HandleUpdateSettings applies partial updates to the user preferences.
func HandleUpdateSettings(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req settingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	db := database.GetDB()
	us, err := models.GetOrCreateUserSettings(db, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load settings"})
	}

	if req.DefaultVoiceID != nil {
		us.DefaultVoiceID = *req.DefaultVoiceID
	}
	if req.ArchiveAudio != nil {
		us.ArchiveAudio = *req.ArchiveAudio
	}

	if err := db.Save(us).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save settings"})
	}

	return c.JSON(fiber.Map{
		"default_voice_id": us.DefaultVoiceID,
		"archive_audio":    us.ArchiveAudio,
	})
}

// HandleIssueAPIKey mints a fresh API key. The raw secret is returned
// exactly once; only its hash is stored.
func HandleIssueAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	db := database.GetDB()
	us, err := models.GetOrCreateUserSettings(db, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load settings"})
	}

	rawKey, err := us.IssueAPIKey()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to generate API key"})
	}

	if err := db.Save(us).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save API key"})
	}

	return c.JSON(fiber.Map{
		"api_key":        rawKey,
		"api_key_prefix": us.APIKeyPrefix,
		"message":        "Store this key now. It will not be shown again.",
	})
}

// HandleRevokeAPIKey invalidates the current API key.
func HandleRevokeAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	db := database.GetDB()
	var us models.UserSettings
	if err := db.Where("user_id = ?", userID).First(&us).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No API key configured"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load settings"})
	}

	if !us.HasActiveAPIKey() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No active API key"})
	}

	us.RevokeAPIKey()
	if err := db.Save(&us).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to revoke API key"})
	}

	return c.JSON(fiber.Map{"message": "API key revoked"})
}

// avatarURL prefers an avatar set by the oauth provider, falling back to
// the gravatar for the account email.
func avatarURL(user *models.User) string {
	if user.AvatarURL != "" {
		return user.AvatarURL
	}
	return utils.GetGravatarURL(user.Email, 200)
}

func planDisplayName(up *models.UserPlan) string {
	if up.PlanName != "" {
		return up.PlanName
	}
	return plans.PlanName(up.PlanAmount)
}
