package service

import (
	"fmt"

	"github.com/trashtdl/todosync-server/internal/model"
)

// Validator performs structural validation of sync command batches. It never
// touches persisted state; duplicate command IDs are allowed here because
// idempotency is the reconciliation engine's concern.
type Validator struct{}

// NewValidator creates a new command batch validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks every command independently and reports problems with
// 1-based positions. A nil batch yields a single descriptive error; an empty
// batch is valid.
func (v *Validator) Validate(commands []*model.CommandDraft) []model.ValidationError {
	if commands == nil {
		return []model.ValidationError{{Index: 0, Message: "commands list cannot be null"}}
	}

	var errs []model.ValidationError
	for i, cmd := range commands {
		index := i + 1
		if cmd == nil {
			errs = append(errs, model.ValidationError{
				Index:   index,
				Message: fmt.Sprintf("command %d: command cannot be null", index),
			})
			continue
		}

		if cmd.CommandID == "" {
			errs = append(errs, model.ValidationError{
				Index:   index,
				Message: fmt.Sprintf("command %d: command ID is required", index),
			})
		}

		if cmd.Type == "" {
			errs = append(errs, model.ValidationError{
				Index:   index,
				Message: fmt.Sprintf("command %d: type is required", index),
			})
		} else if _, ok := model.NormalizeCommandType(cmd.Type); !ok {
			errs = append(errs, model.ValidationError{
				Index: index,
				Message: fmt.Sprintf("command %d: invalid type %q, must be one of CREATE_TASK, UPDATE_TASK, DELETE_TASK",
					index, cmd.Type),
			})
		}

		if cmd.EntityID == "" {
			errs = append(errs, model.ValidationError{
				Index:   index,
				Message: fmt.Sprintf("command %d: entity ID is required", index),
			})
		}
	}

	return errs
}

// NormalizeBatch converts validated drafts into canonical commands. It must
// only be called on a batch Validate accepted.
func NormalizeBatch(drafts []*model.CommandDraft) []model.Command {
	commands := make([]model.Command, 0, len(drafts))
	for _, d := range drafts {
		ct, _ := model.NormalizeCommandType(d.Type)
		commands = append(commands, model.Command{
			CommandID:       d.CommandID,
			EntityID:        d.EntityID,
			Type:            ct,
			Data:            d.Data,
			ClientTimestamp: d.ClientTimestamp,
		})
	}
	return commands
}
