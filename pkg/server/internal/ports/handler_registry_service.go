package ports

import (
	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	"github.com/gofiber/fiber/v2"
)

// HandlerRegistryService defines the main point for registering HTTP handler dependencies.
// It acts as a central registry for mapping API endpoints to their handler implementations.
type HandlerRegistryService struct {
	submitTransaction         *SubmitTransactionHandler
	lookupQuestion            *LookupQuestionHandler
	topicManagersList         *TopicManagersListHandler
	lookupList                *LookupListHandler
	topicManagerDocumentation *TopicManagerDocumentationHandler
	lookupDocumentation       *LookupProviderDocumentationHandler
	arcIngest                 *ARCIngestHandler
	evictOutput               *EvictOutputHandler
}

// RegisterRoutes maps the /api/v1 endpoints to their handler implementations.
// Admin-only endpoints are grouped under /api/v1/admin and guarded by the given
// admin middleware.
func (h *HandlerRegistryService) RegisterRoutes(app *fiber.App, adminMiddleware fiber.Handler) {
	api := app.Group("/api/v1")

	api.Post("/submit", h.submitTransaction.Handle)
	api.Post("/lookup", h.lookupQuestion.Handle)
	api.Get("/listTopicManagers", h.topicManagersList.Handle)
	api.Get("/listLookupServiceProviders", h.lookupList.Handle)
	api.Get("/getDocumentationForTopicManager", h.topicManagerDocumentation.Handle)
	api.Get("/getDocumentationForLookupServiceProvider", h.lookupDocumentation.Handle)
	api.Post("/arc-ingest", h.arcIngest.Handle)

	admin := api.Group("/admin", adminMiddleware)
	admin.Post("/evict", h.evictOutput.Handle)
}

// NewHandlerRegistryService creates and returns a new HandlerRegistryService instance.
// It initializes all handler implementations with their required dependencies.
func NewHandlerRegistryService(provider engine.OverlayEngineProvider) *HandlerRegistryService {
	return &HandlerRegistryService{
		submitTransaction:         NewSubmitTransactionHandler(provider),
		lookupQuestion:            NewLookupQuestionHandler(provider),
		topicManagersList:         NewTopicManagersListHandler(provider),
		lookupList:                NewLookupListHandler(provider),
		topicManagerDocumentation: NewTopicManagerDocumentationHandler(provider),
		lookupDocumentation:       NewLookupProviderDocumentationHandler(provider),
		arcIngest:                 NewARCIngestHandler(provider),
		evictOutput:               NewEvictOutputHandler(provider),
	}
}
