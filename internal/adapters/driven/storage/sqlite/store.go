package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all server-side store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.fabricctl/data/fabrics.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fabricctl", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "fabrics.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// FabricStore returns a FabricStore interface backed by this store.
func (s *Store) FabricStore() driven.FabricStore {
	return &fabricStore{store: s}
}

// ConversationStore returns a ConversationStore interface backed by this store.
func (s *Store) ConversationStore() driven.ConversationStore {
	return &conversationStore{store: s}
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
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

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Fabric Store ====================

// fabricStore implements driven.FabricStore.
type fabricStore struct {
	store *Store
}

var _ driven.FabricStore = (*fabricStore)(nil)

// Save stores or updates a fabric.
func (s *fabricStore) Save(ctx context.Context, fabric domain.Fabric) error {
	sourcesJSON, err := json.Marshal(fabric.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	now := time.Now().UTC()
	if fabric.CreatedAt.IsZero() {
		fabric.CreatedAt = now
	}
	fabric.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO fabrics (id, name, description, domain, status, sources,
			chunk_size, chunk_overlap, embedding_model, chroma_collection,
			documents_count, chunks_count, graph_nodes, graph_edges, error,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			domain = excluded.domain,
			status = excluded.status,
			sources = excluded.sources,
			chunk_size = excluded.chunk_size,
			chunk_overlap = excluded.chunk_overlap,
			embedding_model = excluded.embedding_model,
			chroma_collection = excluded.chroma_collection,
			documents_count = excluded.documents_count,
			chunks_count = excluded.chunks_count,
			graph_nodes = excluded.graph_nodes,
			graph_edges = excluded.graph_edges,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, fabric.ID, fabric.Name, fabric.Description, string(fabric.Domain),
		string(fabric.Status), string(sourcesJSON),
		fabric.ChunkSize, fabric.ChunkOverlap, fabric.EmbeddingModel, fabric.ChromaCollection,
		nullInt(fabric.DocumentsCount), nullInt(fabric.ChunksCount),
		nullInt(fabric.GraphNodes), nullInt(fabric.GraphEdges), fabric.Error,
		fabric.CreatedAt, fabric.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving fabric: %w", err)
	}
	return nil
}

// Get retrieves a fabric by ID.
func (s *fabricStore) Get(ctx context.Context, id string) (*domain.Fabric, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, domain, status, sources,
			chunk_size, chunk_overlap, embedding_model, chroma_collection,
			documents_count, chunks_count, graph_nodes, graph_edges, error,
			created_at, updated_at
		FROM fabrics WHERE id = ?
	`, id)

	fabric, err := scanFabric(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return fabric, err
}

// Delete removes a fabric.
func (s *fabricStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM fabrics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting fabric: %w", err)
	}
	return nil
}

// List returns all stored fabrics ordered by creation time.
func (s *fabricStore) List(ctx context.Context) ([]domain.Fabric, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description, domain, status, sources,
			chunk_size, chunk_overlap, embedding_model, chroma_collection,
			documents_count, chunks_count, graph_nodes, graph_edges, error,
			created_at, updated_at
		FROM fabrics ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying fabrics: %w", err)
	}
	defer rows.Close()

	var fabrics []domain.Fabric //nolint:prealloc // size unknown from query
	for rows.Next() {
		fabric, err := scanFabric(rows.Scan)
		if err != nil {
			return nil, err
		}
		fabrics = append(fabrics, *fabric)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fabrics: %w", err)
	}

	return fabrics, nil
}

// scanFabric reads one fabric row via the given scan function.
func scanFabric(scan func(dest ...any) error) (*domain.Fabric, error) {
	var fabric domain.Fabric
	var fabricDomain, status, sourcesJSON string
	var docs, chunks, nodes, edges sql.NullInt64

	if err := scan(&fabric.ID, &fabric.Name, &fabric.Description, &fabricDomain,
		&status, &sourcesJSON,
		&fabric.ChunkSize, &fabric.ChunkOverlap, &fabric.EmbeddingModel, &fabric.ChromaCollection,
		&docs, &chunks, &nodes, &edges, &fabric.Error,
		&fabric.CreatedAt, &fabric.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning fabric: %w", err)
	}

	fabric.Domain = domain.FabricDomain(fabricDomain)
	fabric.Status = domain.BuildStatus(status)

	if err := json.Unmarshal([]byte(sourcesJSON), &fabric.Sources); err != nil {
		return nil, fmt.Errorf("unmarshalling sources: %w", err)
	}

	fabric.DocumentsCount = intPtr(docs)
	fabric.ChunksCount = intPtr(chunks)
	fabric.GraphNodes = intPtr(nodes)
	fabric.GraphEdges = intPtr(edges)

	return &fabric, nil
}

// ==================== Conversation Store ====================

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store *Store
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// Append adds messages to a conversation, creating it if needed.
func (s *conversationStore) Append(ctx context.Context, conversationID string, msgs []domain.ChatMessage) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var next int
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM conversation_messages WHERE conversation_id = ?",
		conversationID)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("getting next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conversation_messages
			(conversation_id, position, message_id, role, content, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, msg := range msgs {
		sourcesJSON, err := json.Marshal(msg.Sources)
		if err != nil {
			return fmt.Errorf("marshalling sources: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, conversationID, next+i,
			msg.ID, string(msg.Role), msg.Content, string(sourcesJSON), msg.CreatedAt); err != nil {
			return fmt.Errorf("saving message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get returns the full ordered log for a conversation.
func (s *conversationStore) Get(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT message_id, role, content, sources, created_at
		FROM conversation_messages WHERE conversation_id = ?
		ORDER BY position
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var msg domain.ChatMessage
		var role, sourcesJSON string
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &sourcesJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Role = domain.Role(role)
		if err := json.Unmarshal([]byte(sourcesJSON), &msg.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	if len(msgs) == 0 {
		return nil, domain.ErrNotFound
	}
	return msgs, nil
}

// ==================== Feedback Store ====================

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// Save records one feedback entry.
func (s *feedbackStore) Save(ctx context.Context, fb domain.Feedback) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO feedback
			(message_id, fabric_id, llm_id, rating, comments, conversation_id, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, fb.MessageID, fb.FabricID, fb.LLMID, string(fb.Rating),
		fb.Comments, fb.ConversationID, fb.Timestamp)

	if err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}
	return nil
}

// List returns all recorded feedback in submission order.
func (s *feedbackStore) List(ctx context.Context) ([]domain.Feedback, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT message_id, fabric_id, llm_id, rating, comments, conversation_id, submitted_at
		FROM feedback ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var entries []domain.Feedback //nolint:prealloc // size unknown from query
	for rows.Next() {
		var fb domain.Feedback
		var rating string
		if err := rows.Scan(&fb.MessageID, &fb.FabricID, &fb.LLMID, &rating,
			&fb.Comments, &fb.ConversationID, &fb.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		fb.Rating = domain.Rating(rating)
		entries = append(entries, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}

	return entries, nil
}

// ==================== Helper Functions ====================

// nullInt converts an optional counter to its SQL representation.
func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// intPtr converts a nullable SQL integer back to an optional counter.
func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
