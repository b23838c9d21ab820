package ports

import (
	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// LookupServiceProviderDocumentationResponse carries the Markdown documentation
// of a lookup service provider.
type LookupServiceProviderDocumentationResponse struct {
	Documentation string `json:"documentation"`
}

// LookupProviderDocumentationHandler is a Fiber-compatible HTTP handler that
// retrieves documentation for a specific Lookup Service Provider.
// It belongs to the ports layer and serves as the interface adapter between
// HTTP requests and the application-layer LookupDocumentationService.
type LookupProviderDocumentationHandler struct {
	service *app.LookupDocumentationService
}

// Handle processes an HTTP GET request to fetch documentation for a Lookup Service Provider.
// It extracts the `lookupService` query parameter and delegates the retrieval to
// the LookupDocumentationService.
//
// If the query parameter is missing or if the application service returns an error,
// the appropriate error response is propagated to the client.
//
// On success, it returns a 200 OK response containing the provider's documentation.
func (h *LookupProviderDocumentationHandler) Handle(c *fiber.Ctx) error {
	documentation, err := h.service.GetDocumentation(c.UserContext(), c.Query("lookupService"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(LookupServiceProviderDocumentationResponse{Documentation: documentation})
}

// NewLookupProviderDocumentationHandler constructs a new LookupProviderDocumentationHandler
// with the given LookupServiceDocumentationProvider.
// Panics if the provider is nil.
func NewLookupProviderDocumentationHandler(provider app.LookupServiceDocumentationProvider) *LookupProviderDocumentationHandler {
	if provider == nil {
		panic("LookupServiceDocumentationProvider cannot be nil")
	}
	return &LookupProviderDocumentationHandler{service: app.NewLookupDocumentationService(provider)}
}
