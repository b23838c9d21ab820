package testabilities

import (
	"context"
	"testing"

	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/overlay/lookup"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// TestOverlayEngineStub is a test implementation of the engine.OverlayEngineProvider
// interface. Each call delegates to the matching func field; calls without a
// configured func fail the stub by panicking, keeping tests honest about the
// provider surface they exercise.
type TestOverlayEngineStub struct {
	t *testing.T

	SubmitFunc               func(ctx context.Context, taggedBEEF overlay.TaggedBEEF, mode engine.SumbitMode, onSteakReady engine.OnSteakReady) (overlay.Steak, error)
	LookupFunc               func(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error)
	GetUTXOHistoryFunc       func(ctx context.Context, output *engine.Output, historySelector func(beef []byte, outputIndex uint32, currentDepth uint32) bool, currentDepth uint32) (*engine.Output, error)
	EvictFunc                func(ctx context.Context, outpoint *overlay.Outpoint, topic string) error
	ListTopicManagersFunc    func() map[string]*overlay.MetaData
	ListLookupProvidersFunc  func() map[string]*overlay.MetaData
	LookupDocumentationFunc  func(provider string) (string, error)
	TopicManagerDocsFunc     func(provider string) (string, error)
	HandleNewMerkleProofFunc func(ctx context.Context, txid *chainhash.Hash, proof *transaction.MerklePath) error
}

func (s *TestOverlayEngineStub) Submit(ctx context.Context, taggedBEEF overlay.TaggedBEEF, mode engine.SumbitMode, onSteakReady engine.OnSteakReady) (overlay.Steak, error) {
	s.t.Helper()
	if s.SubmitFunc != nil {
		return s.SubmitFunc(ctx, taggedBEEF, mode, onSteakReady)
	}
	panic("SubmitFunc not defined")
}

func (s *TestOverlayEngineStub) Lookup(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
	s.t.Helper()
	if s.LookupFunc != nil {
		return s.LookupFunc(ctx, question)
	}
	panic("LookupFunc not defined")
}

func (s *TestOverlayEngineStub) GetUTXOHistory(ctx context.Context, output *engine.Output, historySelector func(beef []byte, outputIndex uint32, currentDepth uint32) bool, currentDepth uint32) (*engine.Output, error) {
	s.t.Helper()
	if s.GetUTXOHistoryFunc != nil {
		return s.GetUTXOHistoryFunc(ctx, output, historySelector, currentDepth)
	}
	panic("GetUTXOHistoryFunc not defined")
}

func (s *TestOverlayEngineStub) Evict(ctx context.Context, outpoint *overlay.Outpoint, topic string) error {
	s.t.Helper()
	if s.EvictFunc != nil {
		return s.EvictFunc(ctx, outpoint, topic)
	}
	panic("EvictFunc not defined")
}

func (s *TestOverlayEngineStub) ListTopicManagers() map[string]*overlay.MetaData {
	s.t.Helper()
	if s.ListTopicManagersFunc != nil {
		return s.ListTopicManagersFunc()
	}
	panic("ListTopicManagersFunc not defined")
}

func (s *TestOverlayEngineStub) ListLookupServiceProviders() map[string]*overlay.MetaData {
	s.t.Helper()
	if s.ListLookupProvidersFunc != nil {
		return s.ListLookupProvidersFunc()
	}
	panic("ListLookupProvidersFunc not defined")
}

func (s *TestOverlayEngineStub) GetDocumentationForLookupServiceProvider(provider string) (string, error) {
	s.t.Helper()
	if s.LookupDocumentationFunc != nil {
		return s.LookupDocumentationFunc(provider)
	}
	panic("LookupDocumentationFunc not defined")
}

func (s *TestOverlayEngineStub) GetDocumentationForTopicManager(provider string) (string, error) {
	s.t.Helper()
	if s.TopicManagerDocsFunc != nil {
		return s.TopicManagerDocsFunc(provider)
	}
	panic("TopicManagerDocsFunc not defined")
}

func (s *TestOverlayEngineStub) HandleNewMerkleProof(ctx context.Context, txid *chainhash.Hash, proof *transaction.MerklePath) error {
	s.t.Helper()
	if s.HandleNewMerkleProofFunc != nil {
		return s.HandleNewMerkleProofFunc(ctx, txid, proof)
	}
	panic("HandleNewMerkleProofFunc not defined")
}

// NewTestOverlayEngineStub creates a stub bound to the given test.
func NewTestOverlayEngineStub(t *testing.T) *TestOverlayEngineStub {
	return &TestOverlayEngineStub{t: t}
}
