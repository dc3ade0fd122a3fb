// Package database opens the configured storage backend and prepares its
// schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spendwise/internal/config"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/repository"
	"spendwise/internal/repository/gormrepo"
	"spendwise/internal/repository/mongorepo"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MigrationsSource is where golang-migrate reads the SQL files from.
const MigrationsSource = "file://migrations"

// Manager handles relational database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens a GORM connection for the postgres or sqlite backend.
func NewManager(cfg *Config) (*Manager, error) {
	gormConfig := &gorm.Config{
		Logger:         NewGormLogger(logger.Named("gorm"), gormlogger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch cfg.Backend {
	case config.BackendPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		})
	case config.BackendSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("backend %q is not relational", cfg.Backend)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.Backend == config.BackendSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, config: cfg}, nil
}

// Migrate brings the schema up to date: SQL migrations for PostgreSQL,
// AutoMigrate for SQLite.
func (m *Manager) Migrate() error {
	if m.config.Backend == config.BackendSQLite {
		logger.Get().Info("Auto-migrating SQLite schema...")
		if err := m.db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}
	return RunMigrations(m.config.MigrationURL())
}

// RunMigrations applies pending SQL migrations from the migrations/ directory.
func RunMigrations(databaseURL string) error {
	log := logger.Get()
	log.Info("Running database migrations...")

	mig, err := migrate.New(MigrationsSource, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			log.Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// OpenStore connects to the configured backend, prepares its schema and
// returns the repositories over it.
func OpenStore(ctx context.Context, cfg *Config) (*repository.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres, config.BackendSQLite:
		manager, err := NewManager(cfg)
		if err != nil {
			return nil, err
		}
		if err := manager.Migrate(); err != nil {
			return nil, err
		}
		return gormrepo.New(manager.DB()), nil

	case config.BackendMongo:
		return openMongo(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func openMongo(ctx context.Context, cfg *Config) (*repository.Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Get().Infof("Connected to MongoDB database %s", cfg.MongoDatabase)
	return mongorepo.New(db), nil
}
