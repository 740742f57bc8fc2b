package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/VoxFoxApp/VoxFox/internal/pkg/usercontext"
)

// Session/Locals keys shared with the middleware layer
const (
	AUTH_KEY       string = usercontext.AuthKey
	USER_ID        string = usercontext.KeyUserID
	USER_NAME      string = usercontext.KeyUsername
	USER_IS_ADMIN  string = usercontext.KeyIsAdmin
	FROM_PROTECTED string = usercontext.KeyFromProtected
)

// ExtractUsername returns the username set in Locals by the auth middleware,
// or an empty string for anonymous requests.
func ExtractUsername(c *fiber.Ctx) string {
	if userNameValue := c.Locals(USER_NAME); userNameValue != nil {
		if userName, ok := userNameValue.(string); ok {
			return userName
		}
	}

	return ""
}

// GetClientIP resolves the real client address behind proxies. Used for the
// login audit log and as the rate-limiter key on the API group.
func GetClientIP(c *fiber.Ctx) string {
	// Cloudflare forwards the original client IP in this header
	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	// First entry of X-Forwarded-For is the original client
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	return c.IP()
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
