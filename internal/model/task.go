package model

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStore persists per-account task state and the idempotency log. It is the
// only component allowed to mutate either.
type TaskStore interface {
	ReadTaskState(ctx context.Context, accountID uuid.UUID, entityID string) (TaskState, error)
	ListTaskStates(ctx context.Context, accountID uuid.UUID) ([]TaskState, error)
	HasAppliedCommand(ctx context.Context, accountID uuid.UUID, commandID string) (bool, error)
	// ApplyBatch commits all mutations and idempotency keys atomically, or none
	// of them. It returns ErrConcurrentUpdate when a per-entity timestamp guard
	// fails because another batch landed first.
	ApplyBatch(ctx context.Context, accountID uuid.UUID, mutations []TaskMutation, commandIDs []string) error
}

// TaskState is the authoritative per-entity record used for last-writer-wins
// decisions. Deleted states are kept as tombstones so late writes can be
// classified instead of silently recreating the entity.
type TaskState struct {
	EntityID        string
	Data            json.RawMessage
	ClientTimestamp time.Time
	Deleted         bool
}

// TaskMutation is one planned state transition inside an atomic batch.
// PrevTimestamp carries the timestamp the planner observed; the store uses it
// as a compare-and-swap guard against concurrent batches.
type TaskMutation struct {
	Type            CommandType
	EntityID        string
	Data            json.RawMessage
	ClientTimestamp time.Time
	PrevTimestamp   time.Time
	PrevExists      bool
}
