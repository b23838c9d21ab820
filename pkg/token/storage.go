package token

import (
	"context"
	"errors"
	"time"

	"github.com/bsv-blockchain/go-sdk/overlay"
)

// SortOrder controls how query results are ordered by admission time.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// DefaultQueryLimit caps lookup results when the query does not set a limit.
const DefaultQueryLimit = 50

var (
	// ErrRecordExists is returned when inserting a record for an outpoint
	// that is already indexed. Outpoints admit at most once, so a duplicate
	// insert means the host broke the admission lifecycle.
	ErrRecordExists = errors.New("token-record-exists")
)

// Record is one admitted token output as kept by the index.
type Record struct {
	Outpoint  overlay.Outpoint
	AssetID   string
	Amount    uint64
	OwnerKey  string
	Metadata  *string
	CreatedAt time.Time
}

// Filter narrows and pages a token record query. AssetID and OwnerKey are
// conjunctive when both are set; a nil field does not constrain.
type Filter struct {
	AssetID   *string
	OwnerKey  *string
	Limit     int
	Skip      int
	SortOrder SortOrder
}

// Storage persists admitted token records.
type Storage interface {
	// InsertRecord adds a newly admitted record. It fails with
	// ErrRecordExists when the outpoint is already indexed.
	InsertRecord(ctx context.Context, record *Record) error

	// DeleteRecord removes the record for the given outpoint. Deleting an
	// outpoint that is not indexed is a no-op.
	DeleteRecord(ctx context.Context, outpoint *overlay.Outpoint) error

	// FindRecords returns the records matching the filter, ordered by
	// admission time.
	FindRecords(ctx context.Context, filter Filter) ([]*Record, error)
}
