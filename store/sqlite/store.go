// Package sqlite persists serialized program blocks in a SQLite database.
//
// Blocks are stored in the binary block format, one row per saved version,
// under a caller-chosen name. Loading returns exactly the block that was saved.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/arloliu/impact/block"
	"github.com/arloliu/impact/errs"
	"github.com/arloliu/impact/format"
	"github.com/arloliu/impact/section"
)

const schema = `
CREATE TABLE IF NOT EXISTS blocks (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	compression  INTEGER NOT NULL,
	checksum     TEXT NOT NULL,
	payload      BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_blocks_name ON blocks(name);
`

const infoColumns = `id, name, created_at, record_count, compression, checksum, length(payload)`

// BlockInfo describes a stored block without its payload.
type BlockInfo struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	RecordCount int
	Compression format.CompressionType
	Checksum    uint64
	Size        int
}

// Store manages serialized blocks in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// an in-memory database lives only as long as its connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save marshals b with opts and stores it under name as a new version.
// It returns the generated block ID.
func (s *Store) Save(ctx context.Context, name string, b *block.EncodedBlock, opts ...block.MarshalOption) (string, error) {
	if name == "" {
		return "", errors.New("block name must not be empty")
	}

	data, err := block.Marshal(b, opts...)
	if err != nil {
		return "", fmt.Errorf("marshal block: %w", err)
	}
	header, err := section.ParseBlockHeader(data)
	if err != nil {
		return "", fmt.Errorf("marshal block: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO blocks (id, name, created_at, record_count, compression, checksum, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, s.now().UTC().Format(time.RFC3339Nano), b.Len(),
		int(header.Flag.Compression()), formatChecksum(header.Checksum), data,
	)
	if err != nil {
		return "", fmt.Errorf("insert block: %w", err)
	}

	return id, nil
}

// Load returns the block stored under id.
//
// Returns errs.ErrBlockNotFound if no such block exists.
func (s *Store) Load(ctx context.Context, id string) (*block.EncodedBlock, BlockInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+infoColumns+`, payload FROM blocks WHERE id = ?`, id)

	return scanBlock(row, id)
}

// LoadLatest returns the most recently saved block named name.
//
// Returns errs.ErrBlockNotFound if no block has that name.
func (s *Store) LoadLatest(ctx context.Context, name string) (*block.EncodedBlock, BlockInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+infoColumns+`, payload FROM blocks WHERE name = ? ORDER BY rowid DESC LIMIT 1`, name)

	return scanBlock(row, name)
}

// List returns the stored blocks, newest first. An empty name lists every block.
func (s *Store) List(ctx context.Context, name string) ([]BlockInfo, error) {
	query := `SELECT ` + infoColumns + ` FROM blocks`
	var args []any
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var infos []BlockInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}

	return infos, nil
}

// Delete removes the block stored under id.
//
// Returns errs.ErrBlockNotFound if no such block exists.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", errs.ErrBlockNotFound, id)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner, extra ...any) (BlockInfo, error) {
	var (
		info        BlockInfo
		createdAt   string
		compression int
		checksum    string
	)

	dest := append([]any{
		&info.ID, &info.Name, &createdAt, &info.RecordCount, &compression, &checksum, &info.Size,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return BlockInfo{}, err
	}

	var err error
	if info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return BlockInfo{}, fmt.Errorf("parse created_at of %s: %w", info.ID, err)
	}
	if info.Checksum, err = strconv.ParseUint(checksum, 16, 64); err != nil {
		return BlockInfo{}, fmt.Errorf("parse checksum of %s: %w", info.ID, err)
	}
	info.Compression = format.CompressionType(compression) //nolint:gosec

	return info, nil
}

func scanBlock(row scanner, key string) (*block.EncodedBlock, BlockInfo, error) {
	var payload []byte

	info, err := scanInfo(row, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, BlockInfo{}, fmt.Errorf("%w: %s", errs.ErrBlockNotFound, key)
		}

		return nil, BlockInfo{}, fmt.Errorf("scan block: %w", err)
	}

	b, err := block.Unmarshal(payload)
	if err != nil {
		return nil, BlockInfo{}, fmt.Errorf("unmarshal block %s: %w", info.ID, err)
	}

	return b, info, nil
}

func formatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
