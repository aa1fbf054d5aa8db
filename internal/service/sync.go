package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
)

// applyAttempts bounds how many times a batch is replanned after losing a
// per-entity timestamp race to a concurrent batch.
const applyAttempts = 3

// Sync is the reconciliation engine. It applies validated command batches
// against per-account task state under last-writer-wins conflict policy and
// classifies every command as success, conflict or failed.
type Sync struct {
	store  model.TaskStore
	logger *logger.Logger
}

// NewSync creates a new reconciliation engine.
func NewSync(store model.TaskStore, logger *logger.Logger) *Sync {
	return &Sync{store: store, logger: logger}
}

// Reconcile processes one batch for one account as a single atomic unit of
// work. Commands are evaluated in submission order; the returned outcome
// preserves that order within each bucket and covers every input command
// exactly once. A storage failure aborts the whole batch with nothing applied,
// so resubmitting the identical batch is always safe.
func (s *Sync) Reconcile(ctx context.Context, accountID uuid.UUID, commands []model.Command) (model.SyncOutcome, error) {
	for attempt := 1; ; attempt++ {
		plan, err := s.plan(ctx, accountID, commands)
		if err != nil {
			return model.SyncOutcome{}, err
		}

		if len(plan.mutations) == 0 {
			return plan.outcome, nil
		}

		err = s.store.ApplyBatch(ctx, accountID, plan.mutations, plan.commandIDs)
		if errors.Is(err, model.ErrConcurrentUpdate) && attempt < applyAttempts {
			s.logger.Info("Sync service: lost per-entity race, replanning batch",
				"account_id", accountID,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return model.SyncOutcome{}, fmt.Errorf("failed to apply batch: %w", err)
		}

		s.logger.Info("Sync service: batch applied",
			"account_id", accountID,
			"commands", len(commands),
			"success", len(plan.outcome.Success),
			"conflicts", len(plan.outcome.Conflicts),
			"failed", len(plan.outcome.Failed))

		return plan.outcome, nil
	}
}

// ListTasks returns the account's current non-deleted task states.
func (s *Sync) ListTasks(ctx context.Context, accountID uuid.UUID) ([]model.TaskState, error) {
	states, err := s.store.ListTaskStates(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task states: %w", err)
	}
	return states, nil
}

type batchPlan struct {
	outcome    model.SyncOutcome
	mutations  []model.TaskMutation
	commandIDs []string
}

// plan walks the batch in order and decides every command's fate without
// mutating storage. Later commands observe earlier ones through an in-memory
// overlay so that a create followed by an update of the same entity works
// within one batch.
func (s *Sync) plan(ctx context.Context, accountID uuid.UUID, commands []model.Command) (batchPlan, error) {
	var plan batchPlan

	overlay := map[string]model.TaskState{}
	overlayKnown := map[string]bool{}
	appliedInBatch := map[string]bool{}

	for i, cmd := range commands {
		result := model.CommandResult{
			Index:     i + 1,
			CommandID: cmd.CommandID,
			EntityID:  cmd.EntityID,
		}

		// Idempotency: a command already applied, durably or earlier in this
		// batch, succeeds without being reapplied.
		if appliedInBatch[cmd.CommandID] {
			plan.outcome.Success = append(plan.outcome.Success, result)
			continue
		}
		applied, err := s.store.HasAppliedCommand(ctx, accountID, cmd.CommandID)
		if err != nil {
			return batchPlan{}, fmt.Errorf("failed to check idempotency log: %w", err)
		}
		if applied {
			plan.outcome.Success = append(plan.outcome.Success, result)
			continue
		}

		state, exists, err := s.readState(ctx, accountID, cmd.EntityID, overlay, overlayKnown)
		if err != nil {
			return batchPlan{}, err
		}

		if reason, ok := classify(cmd, state, exists); !ok {
			result.Reason = reason.message
			if reason.conflict {
				plan.outcome.Conflicts = append(plan.outcome.Conflicts, result)
			} else {
				plan.outcome.Failed = append(plan.outcome.Failed, result)
			}
			continue
		}

		mutation := model.TaskMutation{
			Type:            cmd.Type,
			EntityID:        cmd.EntityID,
			Data:            cmd.Data,
			ClientTimestamp: cmd.ClientTimestamp,
			PrevExists:      exists,
		}
		if exists {
			mutation.PrevTimestamp = state.ClientTimestamp
		}
		plan.mutations = append(plan.mutations, mutation)
		plan.commandIDs = append(plan.commandIDs, cmd.CommandID)
		appliedInBatch[cmd.CommandID] = true

		overlay[cmd.EntityID] = model.TaskState{
			EntityID:        cmd.EntityID,
			Data:            cmd.Data,
			ClientTimestamp: cmd.ClientTimestamp,
			Deleted:         cmd.Type == model.CommandDeleteTask,
		}
		overlayKnown[cmd.EntityID] = true

		plan.outcome.Success = append(plan.outcome.Success, result)
	}

	return plan, nil
}

func (s *Sync) readState(
	ctx context.Context,
	accountID uuid.UUID,
	entityID string,
	overlay map[string]model.TaskState,
	overlayKnown map[string]bool,
) (model.TaskState, bool, error) {
	if overlayKnown[entityID] {
		return overlay[entityID], true, nil
	}

	state, err := s.store.ReadTaskState(ctx, accountID, entityID)
	if errors.Is(err, model.ErrNotFound) {
		return model.TaskState{}, false, nil
	}
	if err != nil {
		return model.TaskState{}, false, fmt.Errorf("failed to read task state: %w", err)
	}
	return state, true, nil
}

type rejection struct {
	conflict bool
	message  string
}

// classify applies the existence and last-writer-wins ordering rules to one
// command. ok means the command may be applied.
func classify(cmd model.Command, state model.TaskState, exists bool) (rejection, bool) {
	switch cmd.Type {
	case model.CommandCreateTask, model.CommandUpdateTask:
		if len(cmd.Data) == 0 || !json.Valid(cmd.Data) {
			return rejection{conflict: false, message: "malformed data payload"}, false
		}
	}

	switch cmd.Type {
	case model.CommandCreateTask:
		if exists && !state.Deleted {
			return rejection{conflict: true, message: "entity already exists"}, false
		}
		// Recreating over a tombstone is allowed only for a strictly newer write.
		if exists && state.Deleted && !cmd.ClientTimestamp.After(state.ClientTimestamp) {
			return rejection{conflict: true, message: "newer delete already applied"}, false
		}
		return rejection{}, true

	case model.CommandUpdateTask, model.CommandDeleteTask:
		if !exists {
			return rejection{conflict: false, message: "entity does not exist"}, false
		}
		if state.Deleted {
			return rejection{conflict: false, message: "entity was deleted"}, false
		}
		// Ties favor the already-applied state.
		if !cmd.ClientTimestamp.After(state.ClientTimestamp) {
			return rejection{conflict: true, message: "newer write already applied"}, false
		}
		return rejection{}, true

	default:
		return rejection{conflict: false, message: fmt.Sprintf("unknown command type %q", cmd.Type)}, false
	}
}
