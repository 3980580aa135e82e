package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store. Embeddings are stored as
// little-endian float32 blobs and scored in-process on search.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
}

// NewStore creates a SQLite vector store at the specified data directory
// for vectors of the given dimension. If dataDir is empty, defaults to
// ~/.ragchat/data/index.db.
func NewStore(dataDir string, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", domain.ErrStoreUnavailable, err)
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
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// Upsert inserts or replaces records by segment ID. The batch is written
// in a single transaction so a rejected record leaves the index untouched.
func (s *Store) Upsert(ctx context.Context, records []domain.IndexRecord) error {
	for _, rec := range records {
		if len(rec.Embedding) != s.dimensions {
			return fmt.Errorf("%w: record %s has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, rec.SegmentID, len(rec.Embedding), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_records (segment_id, embedding, content, source, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(segment_id) DO UPDATE SET
			embedding = excluded.embedding,
			content = excluded.content,
			source = excluded.source,
			position = excluded.position
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing upsert: %v", domain.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		blob := storage.EncodeEmbedding(rec.Embedding)
		if _, err := stmt.ExecContext(ctx, rec.SegmentID, blob, rec.Content, rec.Source, rec.Position); err != nil {
			return fmt.Errorf("%w: upserting record %s: %v", domain.ErrStoreUnavailable, rec.SegmentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing upsert: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// RemoveAll deletes every record from the index.
func (s *Store) RemoveAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM index_records"); err != nil {
		return fmt.Errorf("%w: clearing index: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_records")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting records: %v", domain.ErrStoreUnavailable, err)
	}
	return count, nil
}

// Search scans all records and returns the top-k by cosine similarity,
// filtered to score >= minScore. Ties are broken by ascending segment ID.
func (s *Store) Search(ctx context.Context, query []float32, k int, minScore float64) ([]domain.RetrievedItem, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("%w: query has dimension %d, store expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if k <= 0 {
		k = driven.DefaultTopK
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT segment_id, embedding, content, source, position
		FROM index_records
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var items []domain.RetrievedItem
	for rows.Next() {
		var (
			segmentID string
			blob      []byte
			content   string
			source    string
			position  int
		)
		if err := rows.Scan(&segmentID, &blob, &content, &source, &position); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %v", domain.ErrStoreUnavailable, err)
		}

		embedding, err := storage.DecodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding embedding for %s: %v", domain.ErrStoreUnavailable, segmentID, err)
		}
		if len(embedding) != s.dimensions {
			return nil, fmt.Errorf("%w: stored record %s has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, segmentID, len(embedding), s.dimensions)
		}

		score := storage.Cosine(query, embedding)
		if score < minScore {
			continue
		}
		items = append(items, domain.RetrievedItem{
			SegmentID: segmentID,
			Content:   content,
			Score:     score,
			Source:    source,
			Position:  position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", domain.ErrStoreUnavailable, err)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].SegmentID < items[j].SegmentID
	})

	if len(items) > k {
		items = items[:k]
	}
	return items, nil
}
