package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/trashtdl/todosync-server/internal/api/http/context"
	"github.com/trashtdl/todosync-server/internal/model"
	"github.com/trashtdl/todosync-server/internal/service"
	"github.com/trashtdl/todosync-server/internal/testutil"
)

type fakeSyncService struct {
	outcome      model.SyncOutcome
	reconcileErr error
	states       []model.TaskState
	listErr      error

	gotAccountID uuid.UUID
	gotCommands  []model.Command
}

func (f *fakeSyncService) Reconcile(_ context.Context, accountID uuid.UUID, commands []model.Command) (model.SyncOutcome, error) {
	f.gotAccountID = accountID
	f.gotCommands = commands
	return f.outcome, f.reconcileErr
}

func (f *fakeSyncService) ListTasks(_ context.Context, accountID uuid.UUID) ([]model.TaskState, error) {
	f.gotAccountID = accountID
	return f.states, f.listErr
}

func authedRequest(method, target, body string, identity model.Identity) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := httpctx.NewManager().SetIdentity(req.Context(), identity)
	return req.WithContext(ctx)
}

func TestSyncHandler_Commands(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New(), Email: "a@b.c", Username: "alice"}
	svc := &fakeSyncService{
		outcome: model.SyncOutcome{
			Success: []model.CommandResult{{Index: 1, CommandID: "c1", EntityID: "e1"}},
		},
	}
	h := NewSync(svc, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	body := `{"commands":[{"commandId":"c1","entityId":"e1","type":"CREATE_TASK","data":{"title":"x"},"clientTimestamp":"2025-06-01T12:00:00Z"}]}`
	rec := httptest.NewRecorder()

	h.Commands(rec, authedRequest(http.MethodPost, "/api/v2/sync/commands", body, identity))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, identity.AccountID, svc.gotAccountID)
	require.Len(t, svc.gotCommands, 1)
	assert.Equal(t, model.CommandCreateTask, svc.gotCommands[0].Type)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), svc.gotCommands[0].ClientTimestamp)

	var resp syncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Success, 1)
	assert.Equal(t, "c1", resp.Success[0].CommandID)
}

func TestSyncHandler_Commands_LegacyActionAccepted(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New()}
	svc := &fakeSyncService{}
	h := NewSync(svc, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	body := `{"commands":[{"commandId":"c1","entityId":"e1","action":"create","data":{},"clientTimestamp":"2025-06-01T12:00:00Z"}]}`
	rec := httptest.NewRecorder()

	h.Commands(rec, authedRequest(http.MethodPost, "/api/v2/sync/commands", body, identity))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.gotCommands, 1)
	assert.Equal(t, model.CommandCreateTask, svc.gotCommands[0].Type)
}

func TestSyncHandler_Commands_ValidationFailure(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New()}
	svc := &fakeSyncService{}
	h := NewSync(svc, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	body := `{"commands":[{"commandId":"c1","entityId":"e1","type":"bogus","clientTimestamp":"2025-06-01T12:00:00Z"}]}`
	rec := httptest.NewRecorder()

	h.Commands(rec, authedRequest(http.MethodPost, "/api/v2/sync/commands", body, identity))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "command 1")
	assert.Zero(t, svc.gotCommands)
}

func TestSyncHandler_Commands_MissingCommandsArray(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New()}
	h := NewSync(&fakeSyncService{}, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Commands(rec, authedRequest(http.MethodPost, "/api/v2/sync/commands", `{}`, identity))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncHandler_Commands_EmptyBatch(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New()}
	svc := &fakeSyncService{}
	h := NewSync(svc, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Commands(rec, authedRequest(http.MethodPost, "/api/v2/sync/commands", `{"commands":[]}`, identity))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp syncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Success)
	assert.Empty(t, resp.Conflicts)
	assert.Empty(t, resp.Failed)
}

func TestSyncHandler_Commands_StorageFailure(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New()}
	svc := &fakeSyncService{reconcileErr: assert.AnError}
	h := NewSync(svc, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	body := `{"commands":[{"commandId":"c1","entityId":"e1","type":"CREATE_TASK","data":{},"clientTimestamp":"2025-06-01T12:00:00Z"}]}`
	rec := httptest.NewRecorder()

	h.Commands(rec, authedRequest(http.MethodPost, "/api/v2/sync/commands", body, identity))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSyncHandler_Commands_NoIdentity(t *testing.T) {
	h := NewSync(&fakeSyncService{}, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v2/sync/commands", strings.NewReader(`{"commands":[]}`))
	rec := httptest.NewRecorder()

	h.Commands(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSyncHandler_Tasks(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New()}
	svc := &fakeSyncService{states: []model.TaskState{
		{EntityID: "e1", Data: json.RawMessage(`{"title":"x"}`), ClientTimestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}}
	h := NewSync(svc, service.NewValidator(), httpctx.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Tasks(rec, authedRequest(http.MethodGet, "/api/v2/tasks", "", identity))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entityId":"e1"`)
}
