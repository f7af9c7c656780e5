package store

import (
	"context"
	"fmt"
	"time"
)

// Run is one recorded compare run.
type Run struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Profile   string        `json:"profile"`
	Verdict   string        `json:"verdict"`
	Gap       int           `json:"gap"`
	Artifacts []ArtifactRow `json:"artifacts"`
}

// ArtifactRow is one variant listing recorded for a run.
type ArtifactRow struct {
	Variant          string `json:"variant"`
	Path             string `json:"path"`
	InstructionCount int    `json:"instruction_count"`
	ContentHash      string `json:"content_hash"`
}

// RecordRun inserts a run and its artifacts in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, profile, verdict, gap) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Profile, run.Verdict, run.Gap,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, a := range run.Artifacts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO artifacts (run_id, variant, path, instruction_count, content_hash) VALUES (?, ?, ?, ?, ?)`,
			run.ID, a.Variant, a.Path, a.InstructionCount, a.ContentHash,
		)
		if err != nil {
			return fmt.Errorf("failed to insert artifact %s: %w", a.Variant, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}
