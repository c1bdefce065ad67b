// Package sqlite provides a SQLite implementation of the HistoryStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.HistoryStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Score snapshots (one row per recorded TrustScore)
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		composite REAL NOT NULL,
		confidence REAL NOT NULL,
		dimensions TEXT NOT NULL,
		outputs TEXT NOT NULL,
		trigger_name TEXT,
		method TEXT,
		integrity_hash TEXT,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_entity ON snapshots(entity_id, recorded_at);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity_id TEXT,
		details TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores a snapshot. An empty ID is replaced with a new UUID
// and a zero RecordedAt with the current time.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *entities.Snapshot) error {
	if snap.ID == "" {
		snap.ID = generateUUID()
	}
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = timeNow().UTC()
	}

	dims, err := json.Marshal(snap.Dimensions)
	if err != nil {
		return fmt.Errorf("marshaling dimensions: %w", err)
	}
	outputs, err := json.Marshal(snap.Outputs)
	if err != nil {
		return fmt.Errorf("marshaling outputs: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, entity_id, composite, confidence, dimensions, outputs, trigger_name, method, integrity_hash, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			composite = excluded.composite,
			confidence = excluded.confidence,
			dimensions = excluded.dimensions,
			outputs = excluded.outputs,
			trigger_name = excluded.trigger_name,
			method = excluded.method,
			integrity_hash = excluded.integrity_hash,
			recorded_at = excluded.recorded_at
	`
	_, err = r.db.ExecContext(ctx, query,
		snap.ID,
		snap.EntityID,
		snap.Composite,
		snap.Confidence,
		string(dims),
		string(outputs),
		snap.Trigger,
		snap.Method,
		snap.IntegrityHash,
		snap.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// FindSnapshots returns snapshots for an entity recorded at or after since,
// oldest first. A non-positive limit means no limit.
func (r *Repository) FindSnapshots(ctx context.Context, entityID string, since time.Time, limit int) ([]entities.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, entity_id, composite, confidence, dimensions, outputs, trigger_name, method, integrity_hash, recorded_at
		FROM snapshots
		WHERE entity_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC
		LIMIT ?
	`
	return r.querySnapshots(ctx, query, entityID, since.UnixNano(), limit)
}

// FindLatestSnapshots returns the most recent snapshots for an entity,
// oldest first.
func (r *Repository) FindLatestSnapshots(ctx context.Context, entityID string, limit int) ([]entities.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT * FROM (
			SELECT id, entity_id, composite, confidence, dimensions, outputs, trigger_name, method, integrity_hash, recorded_at
			FROM snapshots
			WHERE entity_id = ?
			ORDER BY recorded_at DESC
			LIMIT ?
		) ORDER BY recorded_at ASC
	`
	return r.querySnapshots(ctx, query, entityID, limit)
}

// CountSnapshots returns the number of snapshots stored for an entity.
func (r *Repository) CountSnapshots(ctx context.Context, entityID string) (int, error) {
	query := `SELECT COUNT(*) FROM snapshots WHERE entity_id = ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, entityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return count, nil
}

// querySnapshots is a helper to execute snapshot queries.
func (r *Repository) querySnapshots(ctx context.Context, query string, args ...any) ([]entities.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make([]entities.Snapshot, 0, 16)
	for rows.Next() {
		s, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}

// scanSnapshot is a helper to scan a snapshot row.
func (r *Repository) scanSnapshot(rows *sql.Rows) (*entities.Snapshot, error) {
	var s entities.Snapshot
	var dims, outputs string
	var trigger, method, hash sql.NullString
	var recordedAt int64

	err := rows.Scan(
		&s.ID,
		&s.EntityID,
		&s.Composite,
		&s.Confidence,
		&dims,
		&outputs,
		&trigger,
		&method,
		&hash,
		&recordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	s.Trigger = trigger.String
	s.Method = method.String
	s.IntegrityHash = hash.String
	s.RecordedAt = time.Unix(0, recordedAt).UTC()

	if err := json.Unmarshal([]byte(dims), &s.Dimensions); err != nil {
		return nil, fmt.Errorf("unmarshaling dimensions: %w", err)
	}
	if err := json.Unmarshal([]byte(outputs), &s.Outputs); err != nil {
		return nil, fmt.Errorf("unmarshaling outputs: %w", err)
	}

	return &s, nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, entityID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var entityIDPtr sql.NullString
	if entityID != "" {
		entityIDPtr = sql.NullString{String: entityID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, entity_id, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, entityIDPtr, detailsJSON, timeNow().UnixNano())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific entity, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, entityID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, entity_id, details, created_at
		FROM audit_log
		WHERE entity_id = ?
		ORDER BY created_at DESC, id DESC
	`
	return r.queryAuditLog(ctx, query, entityID)
}

// FindAuditLogByAction finds audit log entries by action type, newest first.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, entity_id, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, action, limit)
}

// queryAuditLog is a helper to execute audit log queries.
func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	// Use limit parameter as capacity hint if available
	var entries []entities.AuditEntry
	if len(args) > 0 {
		if limit, ok := args[len(args)-1].(int); ok && limit > 0 {
			entries = make([]entities.AuditEntry, 0, limit)
		}
	}

	for rows.Next() {
		var entry entities.AuditEntry
		var entityID, details sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entityID,
			&details,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.EntityID = entityID.String
		entry.CreatedAt = time.Unix(0, createdAt).UTC()

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
