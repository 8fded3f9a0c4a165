package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/shopbot/core/catalog"
	coreconfig "github.com/m3rciful/shopbot/core/config"
	coredatabase "github.com/m3rciful/shopbot/core/database"
	"github.com/m3rciful/shopbot/core/logger"
)

// Options control the bootstrap pipeline. The function fields default
// to the production implementations and exist for tests.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
	Seed       func(ctx context.Context, db *sqlx.DB) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB       *sqlx.DB
	Catalog  *catalog.Repository
	Snapshot *catalog.Snapshot
}

// Run initializes the logger, connects to the database, applies
// migrations, optionally seeds the catalog, and captures the catalog
// snapshot the bot matches inbound text against.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(opts.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(opts.Config.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	seed := opts.Seed
	if seed == nil && opts.Config.Catalog.Seed {
		seeder := catalog.NewSeeder(db, opts.Config.Catalog.ContentDir)
		seed = func(ctx context.Context, db *sqlx.DB) error {
			return seeder.Seed(ctx)
		}
	}
	if seed != nil {
		if err := seed(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: catalog seed failed: %w", err)
		}
	}

	repo := catalog.NewRepository(db)
	snap, err := catalog.BuildSnapshot(ctx, repo)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: catalog snapshot failed: %w", err)
	}

	return &Result{DB: db, Catalog: repo, Snapshot: snap}, nil
}
