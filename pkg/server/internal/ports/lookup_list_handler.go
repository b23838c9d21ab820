package ports

import (
	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// LookupMetadataResponse describes one hosted lookup service provider.
type LookupMetadataResponse struct {
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	IconURL          string `json:"iconURL,omitempty"`
	Version          string `json:"version,omitempty"`
	InformationURL   string `json:"informationURL,omitempty"`
}

// LookupListResponse maps lookup service provider names to their metadata.
type LookupListResponse map[string]LookupMetadataResponse

// LookupListService defines the interface for a service responsible for retrieving
// and formatting lookup service provider metadata.
type LookupListService interface {
	ListLookupServiceProviders() app.LookupServiceProviders
}

// LookupListHandler handles incoming requests for lookup service provider information.
// It delegates to the LookupListService to retrieve the metadata and formats
// the response.
type LookupListHandler struct {
	service LookupListService
}

// Handle processes an HTTP request to list all lookup service providers.
// It returns an HTTP 200 OK with a LookupListResponse.
func (h *LookupListHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(NewLookupListSuccessResponse(h.service.ListLookupServiceProviders()))
}

// NewLookupListHandler creates a new LookupListHandler with the given provider.
// It initializes the internal LookupListService.
// Panics if the provider is nil.
func NewLookupListHandler(provider app.LookupListProvider) *LookupListHandler {
	if provider == nil {
		panic("lookup list provider is nil")
	}
	return &LookupListHandler{service: app.NewLookupListService(provider)}
}

func NewLookupListSuccessResponse(providers app.LookupServiceProviders) LookupListResponse {
	response := make(LookupListResponse, len(providers))
	for name, metadata := range providers {
		response[name] = LookupMetadataResponse{
			Name:             metadata.Name,
			ShortDescription: metadata.ShortDescription,
			IconURL:          metadata.IconURL,
			Version:          metadata.Version,
			InformationURL:   metadata.InformationURL,
		}
	}
	return response
}
