// Package server wires configuration, storage and services together and
// runs the gRPC endpoint with its optional metrics listener.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/mysterycard/internal/cryptox"
	"github.com/dmitrijs2005/mysterycard/internal/logging"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/dmitrijs2005/mysterycard/internal/server/config"
	"github.com/dmitrijs2005/mysterycard/internal/server/gate"
	"github.com/dmitrijs2005/mysterycard/internal/server/imagestore"
	"github.com/dmitrijs2005/mysterycard/internal/server/metrics"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mysterycard/internal/server/services"

	gs "github.com/dmitrijs2005/mysterycard/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 5 * time.Second

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	adminKeys   *services.AdminKeyService
	metrics     *metrics.Server
	grpcServer  *gs.GRPCServer
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel, os.Stdout)

	hasher, err := cryptox.NewHasher(cfg.HashAlgorithm, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	app := &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		adminKeys:   services.NewAdminKeyService(db, rm, hasher, codec),
	}

	deps := gs.Deps{
		Accounts:  services.NewAccountService(db, rm, hasher, codec),
		AdminKeys: app.adminKeys,
		Game:      services.NewGameService(db, rm),
		Cards:     services.NewCardService(db, rm),
		Images: imagestore.New(imagestore.Options{
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}),
		Gate: gate.New(gs.AccessPolicy(), codec),
	}

	if cfg.MetricsAddr != "" {
		app.metrics = metrics.NewServer(cfg.MetricsAddr, logger.With("module", "metrics"))
		deps.Observer = app.metrics.Metrics()
	}

	app.grpcServer = gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, deps)

	return app, nil
}

// prepare migrates the schema and seeds the admin key when one is configured.
func (app *App) prepare(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if app.config.AdminKey == "" {
		app.logger.Warn(ctx, "No admin key configured, admin elevation stays disabled until one is set")
		return nil
	}

	created, err := app.adminKeys.Bootstrap(ctx, app.config.AdminKey)
	if err != nil {
		return fmt.Errorf("admin key bootstrap: %w", err)
	}
	if created {
		app.logger.Info(ctx, "Admin key stored")
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	errCh, err := app.metrics.Start()
	if err != nil {
		return err
	}

	go func() {
		if err, ok := <-errCh; ok && err != nil {
			cancelFunc()
		}
	}()

	go func() {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.metrics.Stop(stopCtx); err != nil {
			app.logger.Error(stopCtx, err.Error())
		}
	}()

	return nil
}

// Run blocks until a shutdown signal arrives, ctx is cancelled or a
// listener fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.prepare(ctx); err != nil {
		return err
	}

	if app.metrics != nil {
		if err := app.startMetricsServer(ctx, cancelFunc); err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
	}

	var (
		wg      sync.WaitGroup
		grpcErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		grpcErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	if grpcErr != nil {
		return fmt.Errorf("grpc server: %w", grpcErr)
	}
	return nil
}
