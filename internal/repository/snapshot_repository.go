package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-ledger-api/internal/models"
)

const snapshotSchema = `CREATE TABLE IF NOT EXISTS ledger_snapshots (
    id UUID PRIMARY KEY,
    label TEXT NOT NULL,
    payload JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// SnapshotRepository persists ledger snapshots in PostgreSQL.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// EnsureSchema creates the snapshot table when missing.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Create stores a snapshot row.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.SavedSnapshot) error {
	const query = `INSERT INTO ledger_snapshots (id, label, payload, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, snapshot.ID, snapshot.Label, string(snapshot.Payload), snapshot.CreatedAt); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// FindByID loads a snapshot including its payload.
func (r *SnapshotRepository) FindByID(ctx context.Context, id string) (*models.SavedSnapshot, error) {
	const query = `SELECT id, label, payload, octet_length(payload::text) AS size_bytes, created_at
FROM ledger_snapshots WHERE id = $1`
	var snapshot models.SavedSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query, id); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List returns snapshot metadata, newest first.
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]models.SavedSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, label, octet_length(payload::text) AS size_bytes, created_at
FROM ledger_snapshots ORDER BY created_at DESC LIMIT $1`
	var snapshots []models.SavedSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, limit); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snapshots, nil
}

// Ping checks database connectivity for readiness probes.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
