package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
)

// ProgramRepository implements program.Repository for PostgreSQL. The whole
// aggregate is stored as one snapshot document: the tracker is single-user
// and single-snapshot, so there is nothing to join across.
type ProgramRepository struct {
	conn *Connection
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(conn *Connection) *ProgramRepository {
	return &ProgramRepository{conn: conn}
}

// Save upserts the program snapshot.
func (r *ProgramRepository) Save(ctx context.Context, p *program.Program) error {
	snapJSON, err := json.Marshal(p.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal program snapshot: %w", err)
	}

	query := `
		INSERT INTO programs (name, snapshot, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET snapshot = EXCLUDED.snapshot, updated_at = NOW()
	`
	if _, err := r.conn.Exec(ctx, query, p.Name(), snapJSON); err != nil {
		return fmt.Errorf("failed to save program: %w", err)
	}
	return nil
}

// Load reads a program snapshot by name and rebuilds the aggregate through
// the domain's validating constructors.
func (r *ProgramRepository) Load(ctx context.Context, name string) (*program.Program, error) {
	query := `SELECT snapshot FROM programs WHERE name = $1`

	var snapJSON []byte
	err := r.conn.QueryRow(ctx, query, name).Scan(&snapJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.NewDomainError("program", "Load", shared.ErrNotFound,
			"no program named "+name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	var snap program.ProgramSnapshot
	if err := json.Unmarshal(snapJSON, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal program snapshot: %w", err)
	}
	return program.FromSnapshot(snap)
}

// Delete removes a program snapshot. Discarding the snapshot is the only
// deletion semantic the aggregate has.
func (r *ProgramRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM programs WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("program", "Delete", shared.ErrNotFound,
			"no program named "+name)
	}
	return nil
}

// List returns the names of all stored programs.
func (r *ProgramRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.conn.Query(ctx, `SELECT name FROM programs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan program name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
