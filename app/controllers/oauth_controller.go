package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/database"
)

// HandleOAuthBegin starts the provider flow for /auth/:provider.
func HandleOAuthBegin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider flow, linking or creating the
// local account, and opens a session.
func HandleOAuthCallback(c *fiber.Ctx) error {
	gothUser, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "oauth_failed", "message": err.Error()})
	}

	user, err := findOrCreateOAuthUser(gothUser)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to resolve account"})
	}

	if user.IsDisabled() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account_disabled", "message": "This account has been disabled"})
	}

	if err := openSession(c, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to open session"})
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = repository.GetGlobalFactory().GetUserRepository().Update(user)

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.Role == models.ROLE_ADMIN,
		"provider": gothUser.Provider,
	})
}

// HandleOAuthLogout ends the goth session alongside the app session.
func HandleOAuthLogout(c *fiber.Ctx) error {
	_ = gothfiber.Logout(c)
	return HandleLogout(c)
}

// findOrCreateOAuthUser resolves a provider identity to a local user.
// Lookup order: existing provider link, then email match, then a new
// account activated immediately since the provider vouched for the email.
func findOrCreateOAuthUser(gothUser goth.User) (*models.User, error) {
	db := database.GetDB()
	repo := repository.GetGlobalFactory().GetUserRepository()

	var link models.ProviderAccount
	err := db.Where("provider = ? AND provider_user_id = ?", gothUser.Provider, gothUser.UserID).First(&link).Error
	if err == nil {
		updateProviderTokens(db, &link, gothUser)
		return repo.GetByID(link.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := gothUser.Email
	if email == "" {
		// Some providers withhold the email; keep the account addressable.
		email = fmt.Sprintf("%s_%s@%s.oauth.local", gothUser.Provider, gothUser.UserID, gothUser.Provider)
	}

	user, err := repo.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = createOAuthUser(gothUser, email)
	}
	if err != nil {
		return nil, err
	}

	link = models.ProviderAccount{
		UserID:         user.ID,
		Provider:       gothUser.Provider,
		ProviderUserID: gothUser.UserID,
	}
	applyProviderTokens(&link, gothUser)
	if err := db.Create(&link).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func createOAuthUser(gothUser goth.User, email string) (*models.User, error) {
	name := firstNonEmpty(gothUser.Name, gothUser.NickName, gothUser.FirstName, "user")

	// OAuth accounts never log in with this password; it only satisfies
	// the not-null column.
	placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
	hash, err := bcrypt.GenerateFromPassword([]byte(placeholder), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      models.ROLE_USER,
		Status:    models.STATUS_ACTIVE,
		AvatarURL: gothUser.AvatarURL,
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Create(user); err != nil {
		return nil, err
	}

	if db := database.GetDB(); db != nil {
		_, _ = models.GetOrCreateUserPlan(db, user.ID)
	}

	return user, nil
}

func applyProviderTokens(link *models.ProviderAccount, gothUser goth.User) {
	link.AccessToken = gothUser.AccessToken
	link.RefreshToken = gothUser.RefreshToken
	if !gothUser.ExpiresAt.IsZero() {
		expires := gothUser.ExpiresAt
		link.ExpiresAt = &expires
	}
}

func updateProviderTokens(db *gorm.DB, link *models.ProviderAccount, gothUser goth.User) {
	applyProviderTokens(link, gothUser)
	if err := db.Save(link).Error; err != nil {
		fmt.Printf("failed to refresh provider tokens for user %d: %v\n", link.UserID, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
