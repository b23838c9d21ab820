package ports

import (
	"fmt"

	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// ArcIngestBody is the JSON request body accepted by the ARC ingest endpoint.
type ArcIngestBody struct {
	Txid        string `json:"txid"`
	MerklePath  string `json:"merklePath"`
	BlockHeight uint32 `json:"blockHeight"`
}

// ArcIngestResponse is the JSON body returned after a successful proof ingest.
type ArcIngestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ARCIngestHandler is a Fiber-compatible HTTP handler that accepts incoming
// Merkle proof ingestion requests and delegates processing to the ARCIngestService.
// It belongs to the ports layer and acts as the interface adapter between
// HTTP requests and application-layer logic.
type ARCIngestHandler struct {
	service *app.ARCIngestService
}

// Handle processes an HTTP POST request for ingesting a Merkle proof.
//
// Request validation errors (e.g. malformed JSON or invalid fields)
// will return a request parsing error.
// Application-level validation and processing are delegated to ARCIngestService.
//
// On success, it returns a 200 OK response with a success message.
func (h *ARCIngestHandler) Handle(c *fiber.Ctx) error {
	var body ArcIngestBody

	err := c.BodyParser(&body)
	if err != nil {
		return NewRequestBodyParserError(err)
	}

	err = h.service.ProcessIngest(c.UserContext(), body.Txid, body.MerklePath, body.BlockHeight)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(NewARCIngestSuccessResponse(body.Txid))
}

// NewARCIngestHandler creates a new ARCIngestHandler using the given
// provider as the underlying dependency of the ARCIngestService.
// Panics if the provider is nil.
func NewARCIngestHandler(provider app.ARCIngestProvider) *ARCIngestHandler {
	if provider == nil {
		panic("ARC ingest provider is nil")
	}
	return &ARCIngestHandler{service: app.NewARCIngestService(provider)}
}

// NewARCIngestSuccessResponse returns a standardized success response
// when a Merkle proof is successfully ingested.
func NewARCIngestSuccessResponse(txID string) *ArcIngestResponse {
	return &ArcIngestResponse{
		Status:  "success",
		Message: fmt.Sprintf("Transaction with ID:%s successfully ingested.", txID),
	}
}
