// Package sqlite provides the persistent similarity-search backend.
//
// Collections of embedded chunks are stored in a single SQLite database
// under the persist directory. Similarity search is an exact brute-force
// scan over the collection's vectors using cosine distance; collections at
// this system's scale (thousands of chunks) stay well within interactive
// latency without an approximate index.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/codequery/codequery-cli/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
)

// DBFileName is the database file created under the persist directory.
const DBFileName = "index.db"

// Ensure Store implements the backend interface.
var _ driven.VectorBackend = (*Store)(nil)

// Store is the SQLite-backed vector store. One Store owns one storage root
// holding zero or more named collections.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the vector database under persistDir.
func NewStore(persistDir string) (*Store, error) {
	if persistDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		persistDir = filepath.Join(home, ".codequery", "data")
	}

	if err := os.MkdirAll(persistDir, 0700); err != nil {
		return nil, fmt.Errorf("creating persist directory: %w", err)
	}

	dbPath := filepath.Join(persistDir, DBFileName)

	// WAL mode keeps reads responsive while a build is writing.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// CreateCollection persists the items as a new named collection.
// A colliding name fails with domain.ErrAlreadyExists unless overwrite is
// set, in which case the prior contents are replaced in the same
// transaction.
func (s *Store) CreateCollection(ctx context.Context, name string, items []driven.VectorItem, overwrite bool) error {
	if name == "" {
		return fmt.Errorf("collection name: %w", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existingID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM collections WHERE name = ?", name).Scan(&existingID)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("collection %q: %w", name, domain.ErrAlreadyExists)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", existingID); err != nil {
			return fmt.Errorf("replacing collection: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		// New collection.
	default:
		return fmt.Errorf("checking collection: %w", err)
	}

	collectionID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO collections (id, name) VALUES (?, ?)", collectionID, name); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, collection_id, content, relative_path, file_name, chunk_index, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), collectionID,
			item.Content, item.RelativePath, item.FileName, item.ChunkIndex,
			float32SliceToBytes(item.Embedding)); err != nil {
			return fmt.Errorf("saving vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// OpenCollection attaches to an existing collection, validating eagerly
// that the name is actually present in the storage root.
func (s *Store) OpenCollection(ctx context.Context, name string) (driven.Collection, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM collections WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("opening collection: %w", err)
	}
	return &collection{store: s, id: id, name: name}, nil
}

// ListCollections returns the names of all persisted collections.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return names, nil
}

// DeleteCollection removes a collection and its vectors.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

// collection is a searchable handle to one persisted collection.
type collection struct {
	store *Store
	id    string
	name  string
}

var _ driven.Collection = (*collection)(nil)

// Search scans all stored vectors and returns the k nearest to the query
// by cosine distance, ascending. Fewer than k stored vectors returns all
// of them; an empty collection returns an empty slice.
func (c *collection) Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1: %w", domain.ErrInvalidInput)
	}

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT content, relative_path, file_name, chunk_index, embedding
		FROM vectors WHERE collection_id = ?
	`, c.id)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	hits := []domain.SearchHit{}
	for rows.Next() {
		var hit domain.SearchHit
		var blob []byte
		if err := rows.Scan(&hit.Content, &hit.RelativePath, &hit.FileName, &hit.ChunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		hit.Score = cosineDistance(query, bytesToFloat32Slice(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score < hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the exact number of stored vectors.
func (c *collection) Count(ctx context.Context) (int, error) {
	var count int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vectors WHERE collection_id = ?", c.id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// cosineDistance returns 1 - cosine similarity, so lower is more similar.
// Mismatched dimensions or zero vectors yield the maximum distance.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
