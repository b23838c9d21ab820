package ports

import (
	"fmt"

	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// EvictOutputBody is the JSON request body accepted by the admin eviction endpoint.
type EvictOutputBody struct {
	Outpoint string `json:"outpoint"`
	Topic    string `json:"topic"`
}

// EvictOutputResponse is the JSON body returned after a successful eviction.
type EvictOutputResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// EvictOutputHandler is a Fiber-compatible HTTP handler that accepts
// administrative eviction requests and delegates processing to the
// EvictOutputService.
type EvictOutputHandler struct {
	service *app.EvictOutputService
}

// Handle processes an HTTP POST request to evict an output from a topic.
// It expects a JSON body carrying the outpoint reference and the topic name.
//
// On success, it returns a 200 OK response with a success message.
func (h *EvictOutputHandler) Handle(c *fiber.Ctx) error {
	var body EvictOutputBody

	err := c.BodyParser(&body)
	if err != nil {
		return NewRequestBodyParserError(err)
	}

	err = h.service.EvictOutput(c.UserContext(), body.Outpoint, body.Topic)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(NewEvictOutputSuccessResponse(body.Outpoint))
}

// NewEvictOutputHandler creates a new EvictOutputHandler with the given provider.
// Panics if the provider is nil.
func NewEvictOutputHandler(provider app.EvictOutputProvider) *EvictOutputHandler {
	if provider == nil {
		panic("evict output provider is nil")
	}
	return &EvictOutputHandler{service: app.NewEvictOutputService(provider)}
}

// NewEvictOutputSuccessResponse returns a standardized success response
// when an output is successfully evicted.
func NewEvictOutputSuccessResponse(outpoint string) *EvictOutputResponse {
	return &EvictOutputResponse{
		Status:  "success",
		Message: fmt.Sprintf("Output %s successfully evicted.", outpoint),
	}
}
