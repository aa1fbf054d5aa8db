package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trashtdl/todosync-server/internal/model"
)

func draft(id, entity, rawType string) *model.CommandDraft {
	return &model.CommandDraft{
		CommandID:       id,
		EntityID:        entity,
		Type:            rawType,
		ClientTimestamp: time.Now(),
	}
}

func TestValidator_EmptyBatchIsValid(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.Validate([]*model.CommandDraft{}))
}

func TestValidator_NilBatch(t *testing.T) {
	v := NewValidator()
	errs := v.Validate(nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "cannot be null")
}

func TestValidator_NilCommand(t *testing.T) {
	v := NewValidator()
	errs := v.Validate([]*model.CommandDraft{nil, draft("c2", "e2", "CREATE_TASK")})
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Index)
	assert.Contains(t, errs[0].Message, "command 1")
}

func TestValidator_UnknownTypeReportsPosition(t *testing.T) {
	v := NewValidator()
	errs := v.Validate([]*model.CommandDraft{
		draft("c1", "e1", "CREATE_TASK"),
		draft("c2", "e2", "bogus"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Index)
	assert.Contains(t, errs[0].Message, "command 2")
	assert.Contains(t, errs[0].Message, "bogus")
}

func TestValidator_CaseInsensitiveAndLegacyTypes(t *testing.T) {
	v := NewValidator()
	errs := v.Validate([]*model.CommandDraft{
		draft("c1", "e1", "create_task"),
		draft("c2", "e2", "Update_Task"),
		draft("c3", "e3", "delete"), // legacy action form
	})
	assert.Empty(t, errs)
}

func TestValidator_MissingFields(t *testing.T) {
	v := NewValidator()
	errs := v.Validate([]*model.CommandDraft{
		{EntityID: "e1", Type: "CREATE_TASK"},       // no command ID
		{CommandID: "c2", Type: "UPDATE_TASK"},      // no entity ID
		{CommandID: "c3", EntityID: "e3"},           // no type
		draft("c4", "e4", "CREATE_TASK"),            // fine
	})
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Message, "command ID is required")
	assert.Contains(t, errs[1].Message, "entity ID is required")
	assert.Contains(t, errs[2].Message, "type is required")
}

func TestValidator_DuplicateCommandIDsAllowed(t *testing.T) {
	v := NewValidator()
	errs := v.Validate([]*model.CommandDraft{
		draft("c1", "e1", "CREATE_TASK"),
		draft("c1", "e1", "CREATE_TASK"),
	})
	assert.Empty(t, errs)
}

func TestValidator_IndependentPerCommand(t *testing.T) {
	v := NewValidator()
	errs := v.Validate([]*model.CommandDraft{
		{Type: "bogus"}, // three problems at once
		draft("c2", "e2", "DELETE_TASK"),
	})
	require.Len(t, errs, 3)
	for _, e := range errs {
		assert.Equal(t, 1, e.Index)
	}
}

func TestNormalizeBatch(t *testing.T) {
	drafts := []*model.CommandDraft{
		draft("c1", "e1", "create"),
		draft("c2", "e2", "update_task"),
	}
	commands := NormalizeBatch(drafts)
	require.Len(t, commands, 2)
	assert.Equal(t, model.CommandCreateTask, commands[0].Type)
	assert.Equal(t, model.CommandUpdateTask, commands[1].Type)
}
