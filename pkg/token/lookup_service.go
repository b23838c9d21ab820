package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/overlay/lookup"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// LookupServiceName is the service name under which token lookups are served.
const LookupServiceName = "ls_tokens"

var (
	// ErrUnknownLookupService is returned when a lookup question addresses a
	// service other than LookupServiceName.
	ErrUnknownLookupService = errors.New("unknown-lookup-service")

	// ErrInvalidQuery is returned when a lookup question carries a query that
	// cannot be interpreted.
	ErrInvalidQuery = errors.New("invalid-lookup-query")
)

// Query is the JSON query accepted by the token lookup service. All fields
// are optional; an empty query pages through every live token output.
type Query struct {
	AssetID        *string `json:"assetId,omitempty"`
	OwnerKey       *string `json:"ownerKey,omitempty"`
	Limit          *int    `json:"limit,omitempty"`
	Skip           *int    `json:"skip,omitempty"`
	SortOrder      *string `json:"sortOrder,omitempty"`
	IncludeHistory bool    `json:"includeHistory,omitempty"`
}

// LookupService indexes admitted token outputs and answers queries over the
// live set. History traversal is delegated back to the host through lookup
// formulas carrying a per-asset selector.
type LookupService struct {
	storage Storage
}

// NewLookupService returns a token lookup service backed by the given
// storage. It panics when storage is nil.
func NewLookupService(storage Storage) *LookupService {
	if storage == nil {
		panic("token lookup service requires a storage")
	}
	return &LookupService{storage: storage}
}

// OutputAdmittedByTopic indexes a token output admitted under the token
// topic. Admissions for other topics and outputs the codec cannot parse are
// ignored.
func (l *LookupService) OutputAdmittedByTopic(ctx context.Context, payload *engine.OutputAdmittedByTopic) error {
	if payload == nil || payload.Topic != TopicName {
		return nil
	}
	data, err := Decode(payload.LockingScript)
	if err != nil {
		return nil
	}
	return l.storage.InsertRecord(ctx, &Record{
		Outpoint: *payload.Outpoint,
		AssetID:  CanonicalAssetID(data.AssetID, payload.Outpoint),
		Amount:   data.Amount,
		OwnerKey: data.Owner.ToDERHex(),
		Metadata: data.Metadata,
	})
}

// OutputSpent drops the spent output from the live index.
func (l *LookupService) OutputSpent(ctx context.Context, payload *engine.OutputSpent) error {
	if payload == nil || payload.Topic != TopicName {
		return nil
	}
	return l.storage.DeleteRecord(ctx, payload.Outpoint)
}

// OutputNoLongerRetainedInHistory drops the output from the live index.
func (l *LookupService) OutputNoLongerRetainedInHistory(ctx context.Context, outpoint *overlay.Outpoint, topic string) error {
	if topic != TopicName {
		return nil
	}
	return l.storage.DeleteRecord(ctx, outpoint)
}

// OutputEvicted drops the evicted output from the live index.
func (l *LookupService) OutputEvicted(ctx context.Context, outpoint *overlay.Outpoint) error {
	return l.storage.DeleteRecord(ctx, outpoint)
}

// OutputBlockHeightUpdated is a no-op: the index does not track confirmation
// state.
func (l *LookupService) OutputBlockHeightUpdated(ctx context.Context, txid *chainhash.Hash, blockHeight uint32, blockIndex uint64) error {
	return nil
}

// Lookup answers a token query with a formula per matching live output. When
// the query asks for history, each formula carries a selector keeping the
// traversal on outputs of the same asset.
func (l *LookupService) Lookup(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
	if question == nil || question.Service != LookupServiceName {
		return nil, ErrUnknownLookupService
	}
	var query Query
	if len(question.Query) > 0 {
		if err := json.Unmarshal(question.Query, &query); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, err)
		}
	}
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}

	records, err := l.storage.FindRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	formulas := make([]lookup.LookupFormula, 0, len(records))
	for _, record := range records {
		formula := lookup.LookupFormula{Outpoint: &record.Outpoint}
		if query.IncludeHistory {
			formula.Histoy = l.HistorySelector(record.AssetID)
		}
		formulas = append(formulas, formula)
	}
	return &lookup.LookupAnswer{
		Type:     lookup.AnswerTypeFormula,
		Formulas: formulas,
	}, nil
}

// HistorySelector returns a history predicate admitting only outputs that
// belong to the given asset. The predicate is pure: the same output yields
// the same verdict at any traversal depth.
func (l *LookupService) HistorySelector(assetID string) func(beef []byte, outputIndex uint32, currentDepth uint32) bool {
	return func(beefBytes []byte, outputIndex uint32, currentDepth uint32) bool {
		tx, err := transaction.NewTransactionFromBEEF(beefBytes)
		if err != nil || int(outputIndex) >= len(tx.Outputs) {
			return false
		}
		data, err := Decode(tx.Outputs[outputIndex].LockingScript)
		if err != nil {
			return false
		}
		source := &overlay.Outpoint{Txid: *tx.TxID(), OutputIndex: outputIndex}
		return CanonicalAssetID(data.AssetID, source) == assetID
	}
}

func (l *LookupService) GetDocumentation() string {
	return `# Token Lookup Service

Tracks live token outputs admitted under the token topic and answers queries
filtered by asset id and owner key, with paging and optional history
traversal scoped to the queried asset.`
}

func (l *LookupService) GetMetaData() *overlay.MetaData {
	return &overlay.MetaData{
		Name:        LookupServiceName,
		Description: "Lookup over live token outputs with per-asset history selection.",
	}
}

func (q *Query) filter() (Filter, error) {
	filter := Filter{
		AssetID:   q.AssetID,
		OwnerKey:  q.OwnerKey,
		Limit:     DefaultQueryLimit,
		SortOrder: SortAscending,
	}
	if q.Limit != nil {
		if *q.Limit < 0 {
			return Filter{}, fmt.Errorf("%w: negative limit", ErrInvalidQuery)
		}
		filter.Limit = *q.Limit
	}
	if q.Skip != nil {
		if *q.Skip < 0 {
			return Filter{}, fmt.Errorf("%w: negative skip", ErrInvalidQuery)
		}
		filter.Skip = *q.Skip
	}
	if q.SortOrder != nil {
		switch SortOrder(*q.SortOrder) {
		case SortAscending, SortDescending:
			filter.SortOrder = SortOrder(*q.SortOrder)
		default:
			return Filter{}, fmt.Errorf("%w: unsupported sort order %q", ErrInvalidQuery, *q.SortOrder)
		}
	}
	return filter, nil
}
