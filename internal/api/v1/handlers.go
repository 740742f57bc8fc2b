package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/VoxFoxApp/VoxFox/app/controllers"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/middleware"
)

// APIServer implements the versioned JSON API surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// Pong is the ping response body
type Pong struct {
	Ping string `json:"ping"`
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetVoices lists the selectable voice catalog. Public so clients can
// browse voices before signing up.
func (s *APIServer) GetVoices(c *fiber.Ctx) error {
	return controllers.HandleListVoices(c)
}

// GetVoiceSettings returns synthesis parameters for one voice.
func (s *APIServer) GetVoiceSettings(c *fiber.Ctx) error {
	return controllers.HandleGetVoiceSettings(c)
}

// PostGenerate runs one synthesis request for the authenticated user.
func (s *APIServer) PostGenerate(c *fiber.Ctx) error {
	return controllers.HandleGenerateVoice(c)
}

// GetGenerations returns the caller's generation history.
func (s *APIServer) GetGenerations(c *fiber.Ctx) error {
	return controllers.HandleListGenerations(c)
}

// DeleteGeneration removes one of the caller's generations.
func (s *APIServer) DeleteGeneration(c *fiber.Ctx) error {
	return controllers.HandleDeleteGeneration(c)
}

// GetAccount returns the account summary with plan and quota state.
func (s *APIServer) GetAccount(c *fiber.Ctx) error {
	return controllers.HandleGetAccount(c)
}

// PatchSettings applies partial updates to user preferences.
func (s *APIServer) PatchSettings(c *fiber.Ctx) error {
	return controllers.HandleUpdateSettings(c)
}

// PostAPIKey mints a fresh API key for the caller.
func (s *APIServer) PostAPIKey(c *fiber.Ctx) error {
	return controllers.HandleIssueAPIKey(c)
}

// DeleteAPIKey revokes the caller's API key.
func (s *APIServer) DeleteAPIKey(c *fiber.Ctx) error {
	return controllers.HandleRevokeAPIKey(c)
}

// PostPayment submits a mobile-wallet transaction for manual review.
func (s *APIServer) PostPayment(c *fiber.Ctx) error {
	return controllers.HandleSubmitPayment(c)
}

// GetPayments returns the caller's payment history.
func (s *APIServer) GetPayments(c *fiber.Ctx) error {
	return controllers.HandleListMyPayments(c)
}

// RegisterHandlers attaches the v1 routes to the given router group.
// Authenticated routes accept either a session cookie or an API key.
func RegisterHandlers(router fiber.Router, si *APIServer) {
	router.Get("/ping", si.GetPing)
	router.Get("/voices", si.GetVoices)
	router.Get("/voices/:id/settings", si.GetVoiceSettings)

	authed := router.Group("", middleware.SessionOrAPIKey())
	authed.Post("/generate", si.PostGenerate)
	authed.Get("/generations", si.GetGenerations)
	authed.Delete("/generations/:uuid", si.DeleteGeneration)
	authed.Get("/account", si.GetAccount)
	authed.Patch("/account/settings", si.PatchSettings)
	authed.Post("/account/api-key", si.PostAPIKey)
	authed.Delete("/account/api-key", si.DeleteAPIKey)
	authed.Post("/payments", si.PostPayment)
	authed.Get("/payments", si.GetPayments)
}
