package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trashtdl/todosync-server/internal/model"
)

var _ model.TaskStore = (*SyncRepository)(nil)

// SyncRepository owns task state and the idempotency log. No other component
// writes to either table.
type SyncRepository struct {
	db *Connection
}

func NewSyncRepository(db *Connection) *SyncRepository {
	return &SyncRepository{
		db: db,
	}
}

func (r *SyncRepository) ReadTaskState(ctx context.Context, accountID uuid.UUID, entityID string) (model.TaskState, error) {
	var state model.TaskState
	query := `SELECT entity_id, data, last_client_ts, deleted
			  FROM task_states WHERE account_id = $1 AND entity_id = $2`

	err := r.db.QueryRow(ctx, query, accountID, entityID).Scan(
		&state.EntityID, &state.Data, &state.ClientTimestamp, &state.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TaskState{}, model.ErrNotFound
		}
		return model.TaskState{}, fmt.Errorf("failed to read task state: %w", err)
	}

	return state, nil
}

func (r *SyncRepository) ListTaskStates(ctx context.Context, accountID uuid.UUID) ([]model.TaskState, error) {
	query := `SELECT entity_id, data, last_client_ts, deleted
			  FROM task_states
			  WHERE account_id = $1 AND NOT deleted
			  ORDER BY last_client_ts DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task states: %w", err)
	}
	defer rows.Close()

	var states []model.TaskState
	for rows.Next() {
		var state model.TaskState
		if err := rows.Scan(&state.EntityID, &state.Data, &state.ClientTimestamp, &state.Deleted); err != nil {
			return nil, fmt.Errorf("failed to scan task state: %w", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task states: %w", err)
	}

	return states, nil
}

func (r *SyncRepository) HasAppliedCommand(ctx context.Context, accountID uuid.UUID, commandID string) (bool, error) {
	var applied bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applied_commands WHERE account_id = $1 AND command_id = $2)`,
		accountID, commandID,
	).Scan(&applied)
	if err != nil {
		return false, fmt.Errorf("failed to check applied command: %w", err)
	}
	return applied, nil
}

// ApplyBatch commits every mutation and idempotency key in one transaction.
// Each mutation is guarded by a compare-and-swap on the entity's last-applied
// timestamp so two concurrent batches cannot both win a stale write; a guard
// miss rolls everything back and surfaces model.ErrConcurrentUpdate.
func (r *SyncRepository) ApplyBatch(ctx context.Context, accountID uuid.UUID, mutations []model.TaskMutation, commandIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range mutations {
		if err := applyMutation(ctx, tx, accountID, m); err != nil {
			return err
		}
	}

	for _, commandID := range commandIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO applied_commands (account_id, command_id, applied_at)
			 VALUES ($1, $2, NOW())
			 ON CONFLICT (account_id, command_id) DO NOTHING`,
			accountID, commandID,
		)
		if err != nil {
			return fmt.Errorf("failed to record applied command: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

func applyMutation(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, m model.TaskMutation) error {
	switch m.Type {
	case model.CommandCreateTask:
		if !m.PrevExists {
			cmd, err := tx.Exec(ctx,
				`INSERT INTO task_states (account_id, entity_id, data, last_client_ts, deleted)
				 VALUES ($1, $2, $3, $4, false)
				 ON CONFLICT (account_id, entity_id) DO NOTHING`,
				accountID, m.EntityID, m.Data, m.ClientTimestamp,
			)
			if err != nil {
				return fmt.Errorf("failed to create task state: %w", err)
			}
			if cmd.RowsAffected() == 0 {
				return model.ErrConcurrentUpdate
			}
			return nil
		}
		// Recreate over a tombstone, guarded against a newer concurrent write.
		cmd, err := tx.Exec(ctx,
			`UPDATE task_states SET data = $3, last_client_ts = $4, deleted = false
			 WHERE account_id = $1 AND entity_id = $2 AND deleted AND last_client_ts < $4`,
			accountID, m.EntityID, m.Data, m.ClientTimestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to recreate task state: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return model.ErrConcurrentUpdate
		}
		return nil

	case model.CommandUpdateTask:
		cmd, err := tx.Exec(ctx,
			`UPDATE task_states SET data = $3, last_client_ts = $4
			 WHERE account_id = $1 AND entity_id = $2 AND NOT deleted AND last_client_ts < $4`,
			accountID, m.EntityID, m.Data, m.ClientTimestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to update task state: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return model.ErrConcurrentUpdate
		}
		return nil

	case model.CommandDeleteTask:
		cmd, err := tx.Exec(ctx,
			`UPDATE task_states SET deleted = true, last_client_ts = $3
			 WHERE account_id = $1 AND entity_id = $2 AND NOT deleted AND last_client_ts < $3`,
			accountID, m.EntityID, m.ClientTimestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to delete task state: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return model.ErrConcurrentUpdate
		}
		return nil

	default:
		return fmt.Errorf("unknown mutation type %q", m.Type)
	}
}
