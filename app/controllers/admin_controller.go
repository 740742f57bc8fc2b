package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VoxFoxApp/VoxFox/app/models"
	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/jobqueue"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/payments"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/statistics"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/usercontext"
)

type paymentResolveRequest struct {
	Note string `json:"note"`
}

type appSettingsRequest struct {
	SiteTitle           *string `json:"site_title"`
	SiteDescription     *string `json:"site_description"`
	RegistrationEnabled *bool   `json:"registration_enabled"`
	GenerationEnabled   *bool   `json:"generation_enabled"`
	ArchiveEnabled      *bool   `json:"archive_enabled"`
}

// HandleAdminListUsers lists accounts with plan and usage stats, optionally
// filtered by a search query.
func HandleAdminListUsers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()

	query := c.Query("q")
	if query != "" {
		rows, err := repo.SearchWithStats(query)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Search failed"})
		}
		return c.JSON(fiber.Map{"users": adminUserRows(rows), "count": len(rows)})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 25)
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	rows, err := repo.GetWithStats((page-1)*perPage, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load users"})
	}

	total, _ := repo.Count()

	return c.JSON(fiber.Map{
		"users":    adminUserRows(rows),
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// HandleAdminSetUserStatus enables or disables an account.
func HandleAdminSetUserStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	switch req.Status {
	case models.STATUS_ACTIVE, models.STATUS_DISABLED:
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Status must be active or disabled"})
	}

	if uint(id) == usercontext.GetUserID(c) && req.Status == models.STATUS_DISABLED {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "You cannot disable your own account"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	user.Status = req.Status
	if err := repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"id": user.ID, "status": user.Status})
}

// HandleAdminDeleteUser soft-deletes an account.
func HandleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	if uint(id) == usercontext.GetUserID(c) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "You cannot delete your own account"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

// HandleAdminListPendingPayments returns requests awaiting verification.
func HandleAdminListPendingPayments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	list, err := getPaymentsService().ListPending(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payments"})
	}

	items := make([]fiber.Map, 0, len(list))
	for i := range list {
		p := &list[i]
		items = append(items, fiber.Map{
			"uuid":       p.UUID,
			"user_id":    p.UserID,
			"amount":     p.Amount,
			"trx_id":     p.TrxID,
			"status":     p.Status,
			"created_at": p.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"payments": items, "count": len(items)})
}

// HandleAdminVerifyPayment marks a payment verified and applies its plan.
func HandleAdminVerifyPayment(c *fiber.Ctx) error {
	return resolvePayment(c, true)
}

// HandleAdminRejectPayment marks a payment rejected without touching the plan.
func HandleAdminRejectPayment(c *fiber.Ctx) error {
	return resolvePayment(c, false)
}

func resolvePayment(c *fiber.Ctx, verify bool) error {
	paymentUUID := c.Params("uuid")
	adminID := usercontext.GetUserID(c)

	var req paymentResolveRequest
	_ = c.BodyParser(&req)

	svc := getPaymentsService()
	var (
		p   *models.PaymentRequest
		err error
	)
	if verify {
		p, err = svc.Verify(c.Context(), paymentUUID, adminID, req.Note)
	} else {
		p, err = svc.Reject(c.Context(), paymentUUID, adminID, req.Note)
	}

	if err != nil {
		switch {
		case errors.Is(err, payments.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Payment not found"})
		case errors.Is(err, payments.ErrAlreadyResolved):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Payment was already resolved"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to resolve payment"})
		}
	}

	return c.JSON(fiber.Map{
		"uuid":        p.UUID,
		"status":      p.Status,
		"note":        p.Note,
		"resolved_by": p.ResolvedBy,
		"resolved_at": formatTimePtr(p.ResolvedAt),
	})
}

// HandleAdminStats aggregates the operator dashboard numbers.
func HandleAdminStats(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	userCount, _ := repos.User.Count()
	genCount, _ := repos.Generation.Count()
	syntheticCount, _ := repos.Generation.CountSynthetic()
	totalBytes, _ := repos.Generation.TotalBytes()
	pendingPayments, _ := repos.Payment.CountByStatus(models.PAYMENT_STATUS_PENDING)
	verifiedRevenue, _ := repos.Payment.SumVerifiedAmount()

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	daily, _ := repos.Generation.GetDailyCounts(start, end)
	recent, _ := repos.Generation.GetRecent(10)

	queue := jobqueue.GetManager().GetQueue()
	queueSize, _ := queue.GetQueueSize(c.Context())
	processingSize, _ := queue.GetProcessingSize(c.Context())
	jobStats, _ := queue.GetJobStats(c.Context())

	cached := statistics.GetStatistics()

	return c.JSON(fiber.Map{
		"users":             userCount,
		"generations":       genCount,
		"synthetic":         syntheticCount,
		"audio_bytes":       totalBytes,
		"pending_payments":  pendingPayments,
		"verified_revenue":  verifiedRevenue,
		"today_generations": cached.TodayGenerations,
		"daily_generations": daily,
		"recent":            recent,
		"queue": fiber.Map{
			"queued":     queueSize,
			"processing": processingSize,
			"jobs":       jobStats,
		},
	})
}

// HandleAdminVendorSubscription reports the vendor account quota so
// operators can spot it running low before users hit fallback audio.
func HandleAdminVendorSubscription(c *fiber.Ctx) error {
	client := getVoiceClient()
	sub := client.GetUserSubscription(c.Context())

	return c.JSON(fiber.Map{
		"configured":      client.IsConfigured(),
		"tier":            sub.Tier,
		"character_count": sub.CharacterCount,
		"character_limit": sub.CharacterLimit,
		"status":          sub.Status,
	})
}

// HandleAdminGetSettings returns the runtime application settings.
func HandleAdminGetSettings(c *fiber.Ctx) error {
	s := models.GetAppSettings()
	return c.JSON(fiber.Map{
		"site_title":           s.SiteTitle,
		"site_description":     s.SiteDescription,
		"registration_enabled": s.RegistrationEnabled,
		"generation_enabled":   s.GenerationEnabled,
		"archive_enabled":      s.ArchiveEnabled,
	})
}

// HandleAdminUpdateSettings applies partial settings updates and persists them.
func HandleAdminUpdateSettings(c *fiber.Ctx) error {
	var req appSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	current := models.GetAppSettings()
	next := &models.AppSettings{
		SiteTitle:           current.SiteTitle,
		SiteDescription:     current.SiteDescription,
		RegistrationEnabled: current.RegistrationEnabled,
		GenerationEnabled:   current.GenerationEnabled,
		ArchiveEnabled:      current.ArchiveEnabled,
	}

	if req.SiteTitle != nil {
		next.SiteTitle = *req.SiteTitle
	}
	if req.SiteDescription != nil {
		next.SiteDescription = *req.SiteDescription
	}
	if req.RegistrationEnabled != nil {
		next.RegistrationEnabled = *req.RegistrationEnabled
	}
	if req.GenerationEnabled != nil {
		next.GenerationEnabled = *req.GenerationEnabled
	}
	if req.ArchiveEnabled != nil {
		next.ArchiveEnabled = *req.ArchiveEnabled
	}

	if err := repository.GetGlobalFactory().GetSettingRepository().Save(next); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	return HandleAdminGetSettings(c)
}

// HandleAdminQueueKeys lists cache keys for queue inspection.
func HandleAdminQueueKeys(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetQueueRepository()

	pattern := c.Query("pattern")
	var (
		keys []string
		err  error
	)
	if pattern != "" {
		keys, err = repo.FindKeysByPatterns([]string{pattern})
	} else {
		keys, err = repo.GetAllKeys()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan keys"})
	}

	return c.JSON(fiber.Map{"keys": keys, "count": len(keys)})
}

// HandleAdminQueueKeyDetail returns value, TTL, and list length for one key.
func HandleAdminQueueKeyDetail(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing key parameter"})
	}

	repo := repository.GetGlobalFactory().GetQueueRepository()

	detail := fiber.Map{"key": key}
	if value, err := repo.GetValue(key); err == nil {
		detail["value"] = value
	}
	if ttl, err := repo.GetTTL(key); err == nil {
		detail["ttl_seconds"] = int64(ttl.Seconds())
	}
	if length, err := repo.GetListLength(key); err == nil {
		detail["list_length"] = length
	}

	return c.JSON(detail)
}

// HandleAdminQueueBulkDelete removes every key matching the given patterns.
func HandleAdminQueueBulkDelete(c *fiber.Ctx) error {
	var req struct {
		Patterns []string `json:"patterns"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.Patterns) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "At least one pattern is required"})
	}

	repo := repository.GetGlobalFactory().GetQueueRepository()
	keys, err := repo.FindKeysByPatterns(req.Patterns)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan keys"})
	}

	deleted, err := repo.DeleteKeys(keys)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete keys"})
	}

	return c.JSON(fiber.Map{"matched": len(keys), "deleted": deleted})
}

// HandleAdminDeleteQueueKey removes a single cache key.
func HandleAdminDeleteQueueKey(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing key parameter"})
	}

	deleted, err := repository.GetGlobalFactory().GetQueueRepository().DeleteKey(key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete key"})
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}

func adminUserRows(rows []repository.UserWithStats) []fiber.Map {
	out := make([]fiber.Map, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, fiber.Map{
			"id":               r.User.ID,
			"name":             r.User.Name,
			"email":            r.User.Email,
			"role":             r.User.Role,
			"status":           r.User.Status,
			"created_at":       r.User.CreatedAt,
			"last_login_at":    r.User.LastLoginAt,
			"account_status":   r.Plan.AccountStatus,
			"plan_name":        planDisplayName(&r.Plan),
			"voices_generated": r.Plan.VoicesGenerated,
			"generation_limit": r.Plan.GenerationLimit,
			"plan_expiry":      formatTimePtr(r.Plan.PlanExpiry),
			"generations":      r.GenerationCount,
			"payments":         r.PaymentCount,
		})
	}
	return out
}
