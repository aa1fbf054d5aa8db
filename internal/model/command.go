package model

import (
	"encoding/json"
	"strings"
	"time"
)

// CommandType enumerates the mutation kinds a client may submit.
type CommandType string

const (
	CommandCreateTask CommandType = "CREATE_TASK"
	CommandUpdateTask CommandType = "UPDATE_TASK"
	CommandDeleteTask CommandType = "DELETE_TASK"
)

// legacy lowercase actions accepted from older clients.
var legacyActions = map[string]CommandType{
	"create": CommandCreateTask,
	"update": CommandUpdateTask,
	"delete": CommandDeleteTask,
}

// NormalizeCommandType maps a raw type or legacy action string to its canonical
// form. The second return value is false when the value is not a known kind.
func NormalizeCommandType(raw string) (CommandType, bool) {
	trimmed := strings.TrimSpace(raw)
	if ct, ok := legacyActions[strings.ToLower(trimmed)]; ok {
		return ct, true
	}
	switch ct := CommandType(strings.ToUpper(trimmed)); ct {
	case CommandCreateTask, CommandUpdateTask, CommandDeleteTask:
		return ct, true
	}
	return "", false
}

// CommandDraft is a client-submitted command before structural validation.
// Type carries the raw value as sent, which may be a legacy lowercase action.
type CommandDraft struct {
	CommandID       string
	EntityID        string
	Type            string
	Data            json.RawMessage
	ClientTimestamp time.Time
}

// ValidationError reports one structural problem in a submitted batch.
// Index is 1-based to match the positions users see in error messages.
type ValidationError struct {
	Index   int
	Message string
}

// Command is a single client-originated mutation intent. CommandID doubles as
// the idempotency key: it is unique per account and survives retries.
type Command struct {
	CommandID       string
	EntityID        string
	Type            CommandType
	Data            json.RawMessage
	ClientTimestamp time.Time
}

// CommandResult identifies one input command inside a SyncOutcome bucket.
// Index is the command's 1-based position in the submitted batch.
type CommandResult struct {
	Index     int
	CommandID string
	EntityID  string
	Reason    string
}

// SyncOutcome partitions a batch into three disjoint buckets. Every input
// command lands in exactly one of them, in submission order.
type SyncOutcome struct {
	Success   []CommandResult
	Conflicts []CommandResult
	Failed    []CommandResult
}
