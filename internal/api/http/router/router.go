package router

import (
	"net/http"

	"github.com/trashtdl/todosync-server/internal/api/http/handler"
	"github.com/trashtdl/todosync-server/internal/api/http/middleware"
	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
)

// Router wires HTTP handlers and middleware. Auth routes stay anonymous;
// sync and task routes require a bearer credential.
type Router struct {
	authService    handler.AuthService
	syncService    handler.SyncService
	validator      handler.Validator
	gate           middleware.Gate
	contextManager model.ContextManager
	clock          model.Clock
	logger         *logger.Logger
}

// New creates a new HTTP Router instance.
func New(
	authService handler.AuthService,
	syncService handler.SyncService,
	validator handler.Validator,
	gate middleware.Gate,
	contextManager model.ContextManager,
	clock model.Clock,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		syncService:    syncService,
		validator:      validator,
		gate:           gate,
		contextManager: contextManager,
		clock:          clock,
		logger:         logger,
	}
}

// Register builds the route table and returns the root handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.gate, r.contextManager, r.clock, r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	syncHandler := handler.NewSync(r.syncService, r.validator, r.contextManager, r.logger)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/verify", authHandler.Verify)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("POST /api/v2/sync/commands", authenticate.Wrap(http.HandlerFunc(syncHandler.Commands)))
	mux.Handle("GET /api/v2/tasks", authenticate.Wrap(http.HandlerFunc(syncHandler.Tasks)))

	return logging.Wrap(mux)
}
