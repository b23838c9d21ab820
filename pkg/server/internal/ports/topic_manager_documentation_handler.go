package ports

import (
	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// TopicManagerDocumentationResponse carries the Markdown documentation of a topic manager.
type TopicManagerDocumentationResponse struct {
	Documentation string `json:"documentation"`
}

// TopicManagerDocumentationHandler is a Fiber-compatible HTTP handler that
// retrieves documentation for a specific topic manager.
// It belongs to the ports layer and serves as the interface adapter between
// HTTP requests and the application-layer TopicManagerDocumentationService.
type TopicManagerDocumentationHandler struct {
	service *app.TopicManagerDocumentationService
}

// Handle processes an HTTP GET request to fetch documentation for a topic manager.
// It extracts the `topicManager` query parameter and delegates the retrieval to
// the TopicManagerDocumentationService.
//
// If the query parameter is missing or if the application service returns an error,
// the appropriate error response is propagated to the client.
//
// On success, it returns a 200 OK response containing the manager's documentation.
func (h *TopicManagerDocumentationHandler) Handle(c *fiber.Ctx) error {
	documentation, err := h.service.GetDocumentation(c.UserContext(), c.Query("topicManager"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(TopicManagerDocumentationResponse{Documentation: documentation})
}

// NewTopicManagerDocumentationHandler constructs a new TopicManagerDocumentationHandler
// with the given TopicManagerDocumentationProvider.
// Panics if the provider is nil.
func NewTopicManagerDocumentationHandler(provider app.TopicManagerDocumentationProvider) *TopicManagerDocumentationHandler {
	if provider == nil {
		panic("TopicManagerDocumentationProvider cannot be nil")
	}
	return &TopicManagerDocumentationHandler{service: app.NewTopicManagerDocumentationService(provider)}
}
