package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/4chain-ag/go-token-overlay/pkg/token"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tokenOutputsCollection = "token_outputs"

// MongoStorage keeps the token index in a MongoDB collection keyed by
// outpoint, with secondary indexes matching the supported query filters.
type MongoStorage struct {
	coll *mongo.Collection
}

type tokenOutputDocument struct {
	Outpoint  string    `bson:"outpoint"`
	AssetID   string    `bson:"asset_id"`
	Amount    uint64    `bson:"amount"`
	OwnerKey  string    `bson:"owner_key"`
	Metadata  *string   `bson:"metadata,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoStorage(ctx context.Context, db *mongo.Database) (*MongoStorage, error) {
	coll := db.Collection(tokenOutputsCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "outpoint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "asset_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "owner_key", Value: 1}, {Key: "created_at", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure token output indexes: %w", err)
	}
	return &MongoStorage{coll: coll}, nil
}

func (s *MongoStorage) InsertRecord(ctx context.Context, record *token.Record) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.coll.InsertOne(ctx, tokenOutputDocument{
		Outpoint:  record.Outpoint.String(),
		AssetID:   record.AssetID,
		Amount:    record.Amount,
		OwnerKey:  record.OwnerKey,
		Metadata:  record.Metadata,
		CreatedAt: createdAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return token.ErrRecordExists
	}
	return err
}

func (s *MongoStorage) DeleteRecord(ctx context.Context, outpoint *overlay.Outpoint) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"outpoint": outpoint.String()})
	return err
}

// recordQuery translates the filter's AND-semantics into a Mongo query document.
func recordQuery(filter token.Filter) bson.M {
	query := bson.M{}
	if filter.AssetID != nil {
		query["asset_id"] = *filter.AssetID
	}
	if filter.OwnerKey != nil {
		query["owner_key"] = *filter.OwnerKey
	}
	return query
}

// recordFindOptions maps the filter's ordering and paging onto find options.
// The outpoint tiebreaker keeps paging stable for records sharing a timestamp.
func recordFindOptions(filter token.Filter) *options.FindOptions {
	direction := 1
	if filter.SortOrder == token.SortDescending {
		direction = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: direction}, {Key: "outpoint", Value: direction}}).
		SetSkip(int64(filter.Skip)).
		SetLimit(int64(filter.Limit))
}

func (s *MongoStorage) FindRecords(ctx context.Context, filter token.Filter) ([]*token.Record, error) {
	cursor, err := s.coll.Find(ctx, recordQuery(filter), recordFindOptions(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx) //nolint:errcheck
	var records []*token.Record
	for cursor.Next(ctx) {
		var doc tokenOutputDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		outpoint, err := overlay.NewOutpointFromString(doc.Outpoint)
		if err != nil {
			return nil, err
		}
		records = append(records, &token.Record{
			Outpoint:  *outpoint,
			AssetID:   doc.AssetID,
			Amount:    doc.Amount,
			OwnerKey:  doc.OwnerKey,
			Metadata:  doc.Metadata,
			CreatedAt: doc.CreatedAt,
		})
	}
	return records, cursor.Err()
}
