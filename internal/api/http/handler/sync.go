package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
	"github.com/trashtdl/todosync-server/internal/service"
)

// SyncService applies validated command batches and reads task state.
type SyncService interface {
	Reconcile(ctx context.Context, accountID uuid.UUID, commands []model.Command) (model.SyncOutcome, error)
	ListTasks(ctx context.Context, accountID uuid.UUID) ([]model.TaskState, error)
}

// Validator performs structural validation of command batches.
type Validator interface {
	Validate(commands []*model.CommandDraft) []model.ValidationError
}

// Sync handles HTTP endpoints for command synchronization.
type Sync struct {
	syncService    SyncService
	validator      Validator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSync creates a new Sync handler.
func NewSync(syncService SyncService, validator Validator, contextManager model.ContextManager, logger *logger.Logger) *Sync {
	return &Sync{
		syncService:    syncService,
		validator:      validator,
		contextManager: contextManager,
		logger:         logger,
	}
}

type syncCommand struct {
	CommandID       string          `json:"commandId"`
	EntityID        string          `json:"entityId"`
	Type            string          `json:"type"`
	Action          string          `json:"action"`
	Data            json.RawMessage `json:"data"`
	ClientTimestamp time.Time       `json:"clientTimestamp"`
}

type syncRequest struct {
	Commands []*syncCommand `json:"commands"`
}

type commandResult struct {
	Index     int    `json:"index"`
	CommandID string `json:"commandId"`
	EntityID  string `json:"entityId"`
	Reason    string `json:"reason,omitempty"`
}

type syncResponse struct {
	Success   []commandResult `json:"success"`
	Conflicts []commandResult `json:"conflicts"`
	Failed    []commandResult `json:"failed"`
}

type validationResponse struct {
	Errors []string `json:"errors"`
}

type taskResponse struct {
	EntityID        string          `json:"entityId"`
	Data            json.RawMessage `json:"data"`
	ClientTimestamp time.Time       `json:"clientTimestamp"`
}

// Commands handles POST /api/v2/sync/commands.
func (h *Sync) Commands(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Commands == nil {
		writeError(w, http.StatusBadRequest, "request body must contain a commands array")
		return
	}

	drafts := toDrafts(req.Commands)
	if errs := h.validator.Validate(drafts); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Message)
		}
		h.logger.Info("Sync handler: command validation failed",
			"account_id", identity.AccountID,
			"errors", len(messages))
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: messages})
		return
	}

	outcome, err := h.syncService.Reconcile(r.Context(), identity.AccountID, service.NormalizeBatch(drafts))
	if err != nil {
		h.logger.Error("Sync handler: reconciliation failed",
			"account_id", identity.AccountID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSyncResponse(outcome))
}

// Tasks handles GET /api/v2/tasks.
func (h *Sync) Tasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	states, err := h.syncService.ListTasks(r.Context(), identity.AccountID)
	if err != nil {
		h.logger.Error("Sync handler: task listing failed",
			"account_id", identity.AccountID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	tasks := make([]taskResponse, 0, len(states))
	for _, s := range states {
		tasks = append(tasks, taskResponse{
			EntityID:        s.EntityID,
			Data:            s.Data,
			ClientTimestamp: s.ClientTimestamp,
		})
	}

	writeJSON(w, http.StatusOK, tasks)
}

func toDrafts(commands []*syncCommand) []*model.CommandDraft {
	drafts := make([]*model.CommandDraft, len(commands))
	for i, c := range commands {
		if c == nil {
			continue
		}
		rawType := c.Type
		if rawType == "" {
			rawType = c.Action
		}
		drafts[i] = &model.CommandDraft{
			CommandID:       c.CommandID,
			EntityID:        c.EntityID,
			Type:            rawType,
			Data:            c.Data,
			ClientTimestamp: c.ClientTimestamp,
		}
	}
	return drafts
}

func toSyncResponse(outcome model.SyncOutcome) syncResponse {
	return syncResponse{
		Success:   toResults(outcome.Success),
		Conflicts: toResults(outcome.Conflicts),
		Failed:    toResults(outcome.Failed),
	}
}

func toResults(results []model.CommandResult) []commandResult {
	out := make([]commandResult, 0, len(results))
	for _, r := range results {
		out = append(out, commandResult{
			Index:     r.Index,
			CommandID: r.CommandID,
			EntityID:  r.EntityID,
			Reason:    r.Reason,
		})
	}
	return out
}
