package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devverse/devverse/internal/domain/repositories"
	"github.com/devverse/devverse/internal/pkg/idgen"
	"github.com/devverse/devverse/internal/pkg/metrics"
)

// TechRepository implements the TechRepository interface for PostgreSQL
type TechRepository struct {
	db *sqlx.DB
}

// NewTechRepository creates a new PostgreSQL tech repository
func NewTechRepository(db *sqlx.DB) repositories.TechRepository {
	return &TechRepository{db: db}
}

// ListNamesByUserID returns the tech stack names for a user, ordered by name
func (r *TechRepository) ListNamesByUserID(ctx context.Context, userID string) ([]string, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("tech", "list_names_by_user", time.Since(start), err)
	}()

	var names []string
	query := `
		SELECT t.name
		FROM tech_stacks t
		INNER JOIN user_techs ut ON ut.tech_id = t.id
		WHERE ut.user_id = $1
		ORDER BY t.name ASC`

	err = r.db.SelectContext(ctx, &names, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech stack names: %w", err)
	}

	return names, nil
}

// SetUserTechs replaces the user's tech stack with the given names,
// creating tech stack entries as needed
func (r *TechRepository) SetUserTechs(ctx context.Context, userID string, names []string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("tech", "set_user_techs", time.Since(start), err)
	}()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM user_techs WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear user techs: %w", err)
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		// Duplicate names in the request would violate the user_techs
		// primary key; link each name once.
		if seen[name] {
			continue
		}
		seen[name] = true

		var techID string
		err = tx.GetContext(ctx, &techID, `SELECT id FROM tech_stacks WHERE name = $1`, name)
		if errors.Is(err, sql.ErrNoRows) {
			techID = idgen.GenerateID()
			_, err = tx.ExecContext(ctx,
				`INSERT INTO tech_stacks (id, name) VALUES ($1, $2)
				 ON CONFLICT (name) DO NOTHING`, techID, name)
			if err != nil {
				return fmt.Errorf("failed to create tech stack entry: %w", err)
			}
			// Re-read in case a concurrent writer inserted the same name
			if err = tx.GetContext(ctx, &techID, `SELECT id FROM tech_stacks WHERE name = $1`, name); err != nil {
				return fmt.Errorf("failed to resolve tech stack entry: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up tech stack entry: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_techs (user_id, tech_id) VALUES ($1, $2)`, userID, techID)
		if err != nil {
			return fmt.Errorf("failed to link tech stack entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
