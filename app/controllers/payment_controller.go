package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/VoxFoxApp/VoxFox/internal/pkg/payments"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/plans"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/usercontext"
)

type paymentSubmitRequest struct {
	Amount int    `json:"amount"`
	TrxID  string `json:"trx_id"`
}

// HandleListPlans returns the public plan table.
func HandleListPlans(c *fiber.Ctx) error {
	items := make([]fiber.Map, 0, len(plans.Amounts()))
	for _, amount := range plans.Amounts() {
		limit := plans.LimitForAmount(amount)
		items = append(items, fiber.Map{
			"amount":           amount,
			"name":             plans.PlanName(amount),
			"duration_days":    plans.DurationDays(amount),
			"generation_limit": limit,
			"unlimited":        limit.IsUnlimited(),
		})
	}

	return c.JSON(fiber.Map{
		"plans": items,
		"free": fiber.Map{
			"name":             "Free",
			"generation_limit": plans.FreeLimit,
		},
	})
}

// HandleSubmitPayment records a mobile-wallet transaction for manual review.
func HandleSubmitPayment(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req paymentSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	p, err := getPaymentsService().Submit(c.Context(), userID, req.Amount, req.TrxID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSubmission):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Amount and transaction ID are required"})
		case errors.Is(err, payments.ErrDuplicateTransaction):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "A pending request with this transaction ID already exists"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to submit payment"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":         p.UUID,
		"amount":       p.Amount,
		"trx_id":       p.TrxID,
		"status":       p.Status,
		"known_amount": plans.KnownAmount(p.Amount),
		"created_at":   p.CreatedAt,
		"message":      "Payment submitted. An operator will verify it shortly.",
	})
}

// HandleListMyPayments returns the caller's payment history.
func HandleListMyPayments(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	list, err := getPaymentsService().ListByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payments"})
	}

	items := make([]fiber.Map, 0, len(list))
	for i := range list {
		p := &list[i]
		items = append(items, fiber.Map{
			"uuid":        p.UUID,
			"amount":      p.Amount,
			"trx_id":      p.TrxID,
			"status":      p.Status,
			"note":        p.Note,
			"created_at":  p.CreatedAt,
			"resolved_at": formatTimePtr(p.ResolvedAt),
		})
	}

	return c.JSON(fiber.Map{"payments": items, "count": len(items)})
}
