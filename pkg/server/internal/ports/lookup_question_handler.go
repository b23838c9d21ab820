package ports

import (
	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// LookupQuestionBody is the JSON request body accepted by the lookup endpoint.
type LookupQuestionBody struct {
	Service string         `json:"service"`
	Query   map[string]any `json:"query"`
}

// OutputListItemResponse is a single output entry within a lookup answer.
type OutputListItemResponse struct {
	Beef        []byte `json:"beef"`
	OutputIndex uint32 `json:"outputIndex"`
}

// LookupAnswerResponse is the JSON body returned for a successful lookup.
type LookupAnswerResponse struct {
	Type    string                   `json:"type"`
	Outputs []OutputListItemResponse `json:"outputs,omitempty"`
	Result  string                   `json:"result,omitempty"`
}

// LookupQuestionHandler is a Fiber-compatible HTTP handler that processes
// lookup requests for a specific question against a provider-defined lookup service.
//
// It belongs to the ports layer and acts as the interface adapter between
// HTTP requests and the application-layer LookupQuestionService.
type LookupQuestionHandler struct {
	service *app.LookupQuestionService
}

// Handle processes an HTTP POST request to perform a lookup on a question.
// It expects a JSON body carrying the addressed service and the query object.
//
// The handler parses and validates the request body, then delegates the lookup
// operation to the LookupQuestionService.
//
// On success, it returns a 200 OK response with the lookup results.
// On failure, it returns either a request parsing error or a service-level error.
func (h *LookupQuestionHandler) Handle(c *fiber.Ctx) error {
	var body LookupQuestionBody

	err := c.BodyParser(&body)
	if err != nil {
		return NewRequestBodyParserError(err)
	}

	dto, err := h.service.LookupQuestion(c.UserContext(), body.Service, body.Query)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(NewLookupQuestionSuccessResponse(dto))
}

// NewLookupQuestionHandler constructs a new LookupQuestionHandler using the given
// LookupQuestionProvider to initialize the underlying LookupQuestionService.
// Panics if the provider is nil.
func NewLookupQuestionHandler(provider app.LookupQuestionProvider) *LookupQuestionHandler {
	if provider == nil {
		panic("LookupQuestionProvider cannot be nil")
	}
	return &LookupQuestionHandler{service: app.NewLookupQuestionService(provider)}
}

// NewLookupQuestionSuccessResponse transforms a LookupAnswerDTO into the
// response structure returned to the client.
func NewLookupQuestionSuccessResponse(dto *app.LookupAnswerDTO) *LookupAnswerResponse {
	var outputs []OutputListItemResponse

	if len(dto.Outputs) > 0 {
		outputs = make([]OutputListItemResponse, len(dto.Outputs))
		for i, output := range dto.Outputs {
			outputs[i] = OutputListItemResponse{
				Beef:        output.BEEF,
				OutputIndex: output.OutputIndex,
			}
		}
	}

	return &LookupAnswerResponse{
		Outputs: outputs,
		Result:  dto.Result,
		Type:    dto.Type,
	}
}
