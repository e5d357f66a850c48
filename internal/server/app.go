// Package server wires the FlatFinder server together: storage backend,
// credentials, services and the HTTP API, and runs it until a shutdown
// signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/auth"
	"github.com/dmitrijs2005/flatfinder/internal/server/config"
	"github.com/dmitrijs2005/flatfinder/internal/server/httpapi"
	"github.com/dmitrijs2005/flatfinder/internal/server/objectstore"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flatfinder/internal/server/services"
)

var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	newObjectStore = func(ctx context.Context, cfg objectstore.Config) (objectstore.Store, error) {
		return objectstore.NewS3Store(ctx, cfg)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *httpapi.Server
}

// NewApp validates c, opens the storage backend, applies migrations and
// builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	creds, err := auth.NewCredentials(c.SecretKey, c.TokenValidityDuration, c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("credentials init error: %w", err)
	}
	if creds.UsesDevSecret() {
		logger.Warn(ctx, "No secret key configured, using the development key")
	}

	rm, err := openRepositories(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	deletes := services.DeletePolicy{
		CascadeFlatMessages: c.CascadeFlatMessages,
		CascadeUserContent:  c.CascadeUserContent,
	}

	us := services.NewUserService(rm, creds, deletes, logger)
	fs := services.NewFlatService(rm, deletes, logger)
	ms := services.NewMessageService(rm, logger)

	var ps *services.PhotoService
	if c.PhotosEnabled() {
		store, err := newObjectStore(ctx, objectstore.Config{
			Endpoint:    c.S3BaseEndpoint,
			Region:      c.S3Region,
			AccessKey:   c.S3AccessKey,
			SecretKey:   c.S3SecretKey,
			Bucket:      c.S3Bucket,
			URLValidity: c.PhotoURLValidity,
		})
		if err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}
		ps = services.NewPhotoService(rm, store, logger)
	} else {
		logger.Info(ctx, "No S3 bucket configured, photo endpoints disabled")
	}

	srv := httpapi.NewServer(httpapi.Config{
		Address:        c.EndpointAddrHTTP,
		RequestTimeout: c.RequestTimeout,
		CORSOrigins:    c.CORSOrigins,
	}, logger, creds, us, fs, ms, ps)

	return &App{config: c, logger: logger, repomanager: rm, server: srv}, nil
}

func openRepositories(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.StorageBackend == config.BackendMemory {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	rm, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return rm, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the storage backend.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
