package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/4chain-ag/go-token-overlay/pkg/token"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStorage keeps the token index in a SQLite database, with a single
// writer connection and a pooled reader connection sharing one WAL file.
type SQLiteStorage struct {
	wDB *sql.DB
	rDB *sql.DB
}

func NewSQLiteStorage(conn string) (*SQLiteStorage, error) {
	if wdb, err := sql.Open("sqlite3", conn); err != nil {
		return nil, err
	} else if err = applyPragmas(wdb); err != nil {
		return nil, err
	} else if _, err = wdb.Exec(`CREATE TABLE IF NOT EXISTS token_outputs(
		outpoint TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		amount BIGINT NOT NULL,
		owner_key TEXT NOT NULL,
		metadata TEXT,
		created_at TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, err
	} else if _, err = wdb.Exec(`CREATE INDEX IF NOT EXISTS idx_token_outputs_asset ON token_outputs(asset_id, created_at)`); err != nil {
		return nil, err
	} else if _, err = wdb.Exec(`CREATE INDEX IF NOT EXISTS idx_token_outputs_owner ON token_outputs(owner_key, created_at)`); err != nil {
		return nil, err
	} else if rdb, err := sql.Open("sqlite3", conn); err != nil {
		return nil, err
	} else if err = applyPragmas(rdb); err != nil {
		return nil, err
	} else {
		wdb.SetMaxOpenConns(1)
		return &SQLiteStorage{wDB: wdb, rDB: rdb}, nil
	}
}

func applyPragmas(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) InsertRecord(ctx context.Context, record *token.Record) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var metadata sql.NullString
	if record.Metadata != nil {
		metadata = sql.NullString{String: *record.Metadata, Valid: true}
	}
	_, err := s.wDB.ExecContext(ctx, `
        INSERT INTO token_outputs(outpoint, asset_id, amount, owner_key, metadata, created_at)
        VALUES(?, ?, ?, ?, ?, ?)`,
		record.Outpoint.String(),
		record.AssetID,
		record.Amount,
		record.OwnerKey,
		metadata,
		createdAt,
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return token.ErrRecordExists
	}
	return err
}

func (s *SQLiteStorage) DeleteRecord(ctx context.Context, outpoint *overlay.Outpoint) error {
	_, err := s.wDB.ExecContext(ctx, `
        DELETE FROM token_outputs
        WHERE outpoint = ?`,
		outpoint.String(),
	)
	return err
}

func (s *SQLiteStorage) FindRecords(ctx context.Context, filter token.Filter) ([]*token.Record, error) {
	var query strings.Builder
	args := []interface{}{}
	query.WriteString(`SELECT outpoint, asset_id, amount, owner_key, metadata, created_at
        FROM token_outputs `)
	conditions := []string{}
	if filter.AssetID != nil {
		conditions = append(conditions, "asset_id = ?")
		args = append(args, *filter.AssetID)
	}
	if filter.OwnerKey != nil {
		conditions = append(conditions, "owner_key = ?")
		args = append(args, *filter.OwnerKey)
	}
	if len(conditions) > 0 {
		query.WriteString("WHERE " + strings.Join(conditions, " AND ") + " ")
	}
	if filter.SortOrder == token.SortDescending {
		query.WriteString("ORDER BY created_at DESC, outpoint DESC ")
	} else {
		query.WriteString("ORDER BY created_at ASC, outpoint ASC ")
	}
	query.WriteString("LIMIT ? OFFSET ?")
	args = append(args, filter.Limit, filter.Skip)

	rows, err := s.rDB.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck
	var records []*token.Record
	for rows.Next() {
		record := &token.Record{}
		var op string
		var metadata sql.NullString
		if err := rows.Scan(
			&op,
			&record.AssetID,
			&record.Amount,
			&record.OwnerKey,
			&metadata,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		} else if outpoint, err := overlay.NewOutpointFromString(op); err != nil {
			return nil, err
		} else {
			record.Outpoint = *outpoint
		}
		if metadata.Valid {
			record.Metadata = &metadata.String
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteStorage) Close() error {
	s.rDB.Close() //nolint:errcheck
	return s.wDB.Close()
}
