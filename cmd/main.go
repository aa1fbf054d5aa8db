package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/trashtdl/todosync-server/internal/api/http/context"
	"github.com/trashtdl/todosync-server/internal/api/http/router"
	"github.com/trashtdl/todosync-server/internal/clock"
	"github.com/trashtdl/todosync-server/internal/config"
	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/mail"
	"github.com/trashtdl/todosync-server/internal/model"
	"github.com/trashtdl/todosync-server/internal/repository/postgres"
	"github.com/trashtdl/todosync-server/internal/security"
	"github.com/trashtdl/todosync-server/internal/server"
	"github.com/trashtdl/todosync-server/internal/service"
	"github.com/trashtdl/todosync-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	signupRepo := postgres.NewSignupRepository(db)
	syncRepo := postgres.NewSyncRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.SessionLifetime)
	hasher := security.NewBcrypt(0)
	sysClock := clock.NewSystem()

	mailer, err := mail.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.App.BaseURL, logger)
	if err != nil {
		logger.Fatal("failed to create mailer", "error", err)
	}

	authService := service.NewAuth(accountRepo, signupRepo, hasher, tokenManager, mailer, sysClock, logger)
	gate := service.NewGate(accountRepo, tokenManager, logger)
	validator := service.NewValidator()
	syncService := service.NewSync(syncRepo, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, syncService, validator, gate, ctxMgr, sysClock, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
