package ports

import (
	"context"
	"strings"

	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/gofiber/fiber/v2"
)

// XTopicsHeader defines the HTTP header key used for specifying transaction topics.
const XTopicsHeader = "x-topics"

// SubmitTransactionService defines the interface for a service responsible for submitting transactions.
type SubmitTransactionService interface {
	SubmitTransaction(ctx context.Context, topics app.TransactionTopics, body ...byte) (*overlay.Steak, error)
}

// SubmitTransactionHandler handles incoming transaction requests.
// It validates the request body, translates the content into a format compatible
// with the submit transaction service, and invokes the appropriate service logic.
type SubmitTransactionHandler struct {
	service SubmitTransactionService
}

// AdmittanceInstructionsResponse mirrors the admittance instructions of one
// topic within a STEAK response.
type AdmittanceInstructionsResponse struct {
	OutputsToAdmit []uint32 `json:"outputsToAdmit"`
	CoinsToRetain  []uint32 `json:"coinsToRetain"`
	CoinsRemoved   []uint32 `json:"coinsRemoved"`
	AncillaryTxIDs []string `json:"ancillaryTxids,omitempty"`
}

// SubmitTransactionResponse is the JSON body returned after a successful
// transaction submission: the STEAK keyed by topic.
type SubmitTransactionResponse struct {
	STEAK map[string]AdmittanceInstructionsResponse `json:"steak"`
}

// Handle processes an HTTP request to submit a transaction to the submit transaction service.
// It expects the `x-topics` header to be present and valid. On success, it returns
// HTTP 200 OK with a STEAK response.
// If an error occurs during transaction submission, it returns the corresponding application error.
func (s *SubmitTransactionHandler) Handle(c *fiber.Ctx) error {
	steak, err := s.service.SubmitTransaction(c.UserContext(), ParseTopicsHeader(c.Get(XTopicsHeader)), c.Body()...)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(NewSubmitTransactionSuccessResponse(steak))
}

// ParseTopicsHeader splits the comma-separated x-topics header value into a
// topics list. An empty header yields an empty list, which the service rejects.
func ParseTopicsHeader(header string) app.TransactionTopics {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	parts := strings.Split(header, ",")
	topics := make(app.TransactionTopics, 0, len(parts))
	for _, part := range parts {
		topics = append(topics, strings.TrimSpace(part))
	}
	return topics
}

// NewSubmitTransactionHandler creates a new SubmitTransactionHandler with the given provider.
// If the provider is nil, it panics.
func NewSubmitTransactionHandler(provider app.SubmitTransactionProvider) *SubmitTransactionHandler {
	if provider == nil {
		panic("submit transaction provider is nil")
	}

	return &SubmitTransactionHandler{service: app.NewSubmitTransactionService(provider)}
}

// NewSubmitTransactionSuccessResponse creates a successful response for the transaction submission.
// It maps the Steak data to the response format.
func NewSubmitTransactionSuccessResponse(steak *overlay.Steak) *SubmitTransactionResponse {
	if steak == nil {
		return &SubmitTransactionResponse{
			STEAK: make(map[string]AdmittanceInstructionsResponse),
		}
	}

	response := SubmitTransactionResponse{
		STEAK: make(map[string]AdmittanceInstructionsResponse, len(*steak)),
	}

	for key, instructions := range *steak {
		if instructions == nil {
			response.STEAK[key] = AdmittanceInstructionsResponse{}
			continue
		}

		ancillaryIDs := make([]string, 0, len(instructions.AncillaryTxids))
		for _, id := range instructions.AncillaryTxids {
			ancillaryIDs = append(ancillaryIDs, id.String())
		}

		response.STEAK[key] = AdmittanceInstructionsResponse{
			AncillaryTxIDs: ancillaryIDs,
			CoinsRemoved:   instructions.CoinsRemoved,
			CoinsToRetain:  instructions.CoinsToRetain,
			OutputsToAdmit: instructions.OutputsToAdmit,
		}
	}
	return &response
}
