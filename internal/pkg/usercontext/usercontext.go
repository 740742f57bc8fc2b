package usercontext

import "github.com/gofiber/fiber/v2"

// LocalKey is the Locals slot the context middleware fills for every request.
const LocalKey = "USER_CONTEXT"

// UserContext is the per-request view of the authenticated user. Plan holds
// the account status string so handlers can show tier information without
// another plan-row lookup.
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
	Plan       string `json:"plan"`
}

// GetUserContext returns the context stored by the middleware, or an
// anonymous one when the request carried no session or API key.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(LocalKey); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn reports whether the request is authenticated.
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin reports whether the request belongs to an admin account.
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the authenticated user's ID, 0 when anonymous.
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetUsername returns the authenticated user's name, empty when anonymous.
func GetUsername(c *fiber.Ctx) string {
	return GetUserContext(c).Username
}
