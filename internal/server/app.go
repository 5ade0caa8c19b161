// Package server wires storage, the token ledger, the vault services and
// the gRPC endpoint together and runs them until a shutdown signal.
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

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/config"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/receipts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/vaultkeeper/internal/server/grpc"
)

// signaturePruner deletes remembered proof ids that can no longer be
// replayed.
type signaturePruner interface {
	PruneSignatures(ctx context.Context, now int64) (int64, error)
}

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	programID     identity.Identity
	vaultService  *services.VaultService
	ledgerService *services.LedgerService
}

func NewApp(c *config.Config) (*App, error) {

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	programID, err := c.Program()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	db, rm, err := openDatabase(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	archive, err := receipts.Open(ctx, receipts.Config{
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("receipt archive: %w", err)
	}

	l := ledger.New(rm, programID)
	vs := services.NewVaultService(db, rm, l, programID, archive, logger)
	ls := services.NewLedgerService(db, rm, l, archive, logger)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		programID:     programID,
		vaultService:  vs,
		ledgerService: ls,
	}, nil
}

// openDatabase opens the pool for driver and brings the schema up to date.
// SQLite is limited to a single connection so that writers serialize.
func openDatabase(ctx context.Context, driver, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	rm, err := repomanager.New(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if driver == repomanager.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, rm, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	verifier := auth.NewVerifier(app.config.SignatureTTL)
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.vaultService, app.ledgerService, verifier, app.programID)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runPruner deletes expired proof ids every interval until ctx is done.
// A non-positive interval disables pruning.
func runPruner(ctx context.Context, p signaturePruner, interval time.Duration, logger logging.Logger) {
	if interval <= 0 {
		logger.Warn(ctx, "signature pruning disabled", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := p.PruneSignatures(ctx, now.Unix())
			if err != nil {
				logger.Warn(ctx, "prune signatures failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug(ctx, "pruned signatures", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "program_id", app.programID, "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runPruner(ctx, app.ledgerService, app.config.PruneInterval, app.logger)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
