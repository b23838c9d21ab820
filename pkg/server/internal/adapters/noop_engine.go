package adapters

import (
	"context"

	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/overlay/lookup"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// NoopEngineProvider is a stand-in overlay engine implementation used as the
// default provider when the HTTP server is built without a configured engine,
// and as a fixture for server-level tests.
type NoopEngineProvider struct{}

// Submit is a no-op call that resolves the STEAK callback immediately and
// returns an empty STEAK with nil error.
func (*NoopEngineProvider) Submit(ctx context.Context, taggedBEEF overlay.TaggedBEEF, mode engine.SumbitMode, onSteakReady engine.OnSteakReady) (overlay.Steak, error) {
	if onSteakReady != nil {
		onSteakReady(&overlay.Steak{})
	}
	return overlay.Steak{}, nil
}

// Lookup is a no-op call that always returns an empty lookup answer with nil error.
func (*NoopEngineProvider) Lookup(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
	return &lookup.LookupAnswer{
		Type:    lookup.AnswerTypeOutputList,
		Outputs: []*lookup.OutputListItem{},
	}, nil
}

// GetUTXOHistory is a no-op call that returns the given output with nil error.
func (*NoopEngineProvider) GetUTXOHistory(ctx context.Context, output *engine.Output, historySelector func(beef []byte, outputIndex uint32, currentDepth uint32) bool, currentDepth uint32) (*engine.Output, error) {
	return output, nil
}

// Evict is a no-op call that always returns a nil error.
func (*NoopEngineProvider) Evict(ctx context.Context, outpoint *overlay.Outpoint, topic string) error {
	return nil
}

// ListTopicManagers is a no-op call that always returns an empty topic managers map.
func (*NoopEngineProvider) ListTopicManagers() map[string]*overlay.MetaData {
	return map[string]*overlay.MetaData{}
}

// ListLookupServiceProviders is a no-op call that always returns an empty lookup service providers map.
func (*NoopEngineProvider) ListLookupServiceProviders() map[string]*overlay.MetaData {
	return map[string]*overlay.MetaData{}
}

// GetDocumentationForLookupServiceProvider is a no-op call that always returns a placeholder string with nil error.
func (*NoopEngineProvider) GetDocumentationForLookupServiceProvider(provider string) (string, error) {
	return "noop_engine_lookup_service_provider_doc", nil
}

// GetDocumentationForTopicManager is a no-op call that always returns a placeholder string with nil error.
func (*NoopEngineProvider) GetDocumentationForTopicManager(provider string) (string, error) {
	return "noop_engine_topic_manager_doc", nil
}

// HandleNewMerkleProof is a no-op call that always returns a nil error.
func (*NoopEngineProvider) HandleNewMerkleProof(ctx context.Context, txid *chainhash.Hash, proof *transaction.MerklePath) error {
	return nil
}

// NewNoopEngineProvider returns an OverlayEngineProvider implementation
// and checks whether the engine contract matches the implemented method set.
func NewNoopEngineProvider() engine.OverlayEngineProvider {
	return &NoopEngineProvider{}
}
