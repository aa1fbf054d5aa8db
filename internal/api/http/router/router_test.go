package router

import (
	"context"
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

type stubAuthService struct{}

func (s *stubAuthService) Register(context.Context, service.RegisterParams) error {
	return nil
}

func (s *stubAuthService) Verify(context.Context, string) error {
	return nil
}

func (s *stubAuthService) Login(context.Context, service.LoginParams) (model.Session, error) {
	return model.Session{Token: "tok", AccountID: uuid.New()}, nil
}

type stubSyncService struct{}

func (s *stubSyncService) Reconcile(context.Context, uuid.UUID, []model.Command) (model.SyncOutcome, error) {
	return model.SyncOutcome{}, nil
}

func (s *stubSyncService) ListTasks(context.Context, uuid.UUID) ([]model.TaskState, error) {
	return nil, nil
}

type stubGate struct {
	err error
}

func (g *stubGate) Authenticate(context.Context, string, time.Time) (model.Identity, error) {
	if g.err != nil {
		return model.Identity{}, g.err
	}
	return model.Identity{AccountID: uuid.New()}, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func newTestRouter(gate *stubGate) http.Handler {
	r := New(
		&stubAuthService{},
		&stubSyncService{},
		service.NewValidator(),
		gate,
		httpctx.NewManager(),
		systemClock{},
		testutil.MakeNoopLogger(),
	)
	return r.Register()
}

func TestRouter_AuthRoutesAreAnonymous(t *testing.T) {
	h := newTestRouter(&stubGate{err: model.ErrMissingCredential})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"pw"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestRouter_SyncRoutesRequireCredential(t *testing.T) {
	h := newTestRouter(&stubGate{err: model.ErrMissingCredential})

	for _, route := range []struct {
		method string
		target string
	}{
		{method: http.MethodPost, target: "/api/v2/sync/commands"},
		{method: http.MethodGet, target: "/api/v2/tasks"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(route.method, route.target, strings.NewReader(`{"commands":[]}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.target)
	}
}

func TestRouter_AuthenticatedSync(t *testing.T) {
	h := newTestRouter(&stubGate{})

	req := httptest.NewRequest(http.MethodPost, "/api/v2/sync/commands", strings.NewReader(`{"commands":[]}`))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(&stubGate{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v3/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
