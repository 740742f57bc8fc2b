package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/database"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/env"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/hcaptcha"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/jobqueue"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/session"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/usercontext"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new inactive account and sends the activation mail.
func HandleRegister(c *fiber.Ctx) error {
	if !models.GetAppSettings().IsRegistrationEnabled() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Registration is currently disabled"})
	}

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	// Captcha is enforced only when a secret is configured.
	if env.GetEnv("HCAPTCHA_SECRET", "") != "" {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); err != nil || !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "captcha_failed", "message": "Captcha verification failed"})
		}
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(user.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Email is already registered"})
	}

	if err := user.GenerateActivationToken(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to prepare activation"})
	}

	if err := repo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create account"})
	}

	// Plan row starts on free defaults.
	if db := database.GetDB(); db != nil {
		_, _ = models.GetOrCreateUserPlan(db, user.ID)
	}

	sendActivationMail(user)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"status":  user.Status,
		"message": "Account created. Check your inbox for the activation link.",
	})
}

// HandleLogin authenticates with email and password and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
	}

	if !models.CheckPasswordHash(req.Password, user.Password) {
		log.Warnf("failed login attempt for %s from %s", req.Email, GetClientIP(c))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}

	if user.IsDisabled() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account_disabled", "message": "This account has been disabled"})
	}
	if user.Status == models.STATUS_INACTIVE {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not_activated", "message": "Activate your account first"})
	}

	if err := openSession(c, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": fmt.Sprintf("session error: %v", err)})
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = repo.Update(user)

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.Role == models.ROLE_ADMIN,
	})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	if name := ExtractUsername(c); name != "" {
		log.Infof("user %s logged out from %s", name, GetClientIP(c))
	}

	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	c.Locals(FROM_PROTECTED, false)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleActivate flips an inactive account to active via its mailed token.
func HandleActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.BodyParser(&body); err == nil {
			token = body.Token
		}
	}
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing activation token"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Invalid activation token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Activation failed"})
	}

	if user.Status == models.STATUS_ACTIVE {
		return c.JSON(fiber.Map{"message": "Account already active"})
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Activation failed"})
	}

	return c.JSON(fiber.Map{"message": "Account activated. You can log in now."})
}

func openSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)

	if err := sess.Save(); err != nil {
		return err
	}

	// Cache the plan for the navbar-style account summary
	plan := models.ACCOUNT_STATUS_FREE
	if db := database.GetDB(); db != nil {
		if up, err := models.GetOrCreateUserPlan(db, user.ID); err == nil {
			plan = up.AccountStatus
		}
	}
	return session.SetSessionValue(c, usercontext.KeyUserPlan, plan)
}

func sendActivationMail(user *models.User) {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:"+env.GetEnv("APP_PORT", "4000"))
	link := fmt.Sprintf("%s/activate?token=%s", base, user.ActivationToken)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Activate your VoxFox account: <a href=%q>%s</a></p>", user.Name, link, link)

	if _, err := jobqueue.GetManager().GetQueue().EnqueueSendMailJob(user.Email, "Activate your VoxFox account", body); err != nil {
		// Registration still succeeds; the user can request a new mail.
		fmt.Printf("failed to enqueue activation mail for %s: %v\n", user.Email, err)
	}
}
