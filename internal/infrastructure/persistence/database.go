package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/cortecaja/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the GORM handle shared by the repositories and readers
type Database struct {
	DB *gorm.DB
}

type openOptions struct {
	dialector gorm.Dialector
	gormLog   logger.Interface
	log       *zap.Logger
	attempts  int
	backoff   time.Duration
}

// OpenOption configures Open
type OpenOption func(*openOptions)

// WithGormLogger routes GORM's statement log through l
func WithGormLogger(l logger.Interface) OpenOption {
	return func(o *openOptions) { o.gormLog = l }
}

// WithStartupLogger reports connection attempts to l
func WithStartupLogger(l *zap.Logger) OpenOption {
	return func(o *openOptions) { o.log = l }
}

// WithConnectAttempts retries the initial ping up to n times, doubling the
// wait between attempts starting from backoff.
func WithConnectAttempts(n int, backoff time.Duration) OpenOption {
	return func(o *openOptions) {
		if n > 0 {
			o.attempts = n
		}
		o.backoff = backoff
	}
}

// WithDialector replaces the postgres dialector built from the config
func WithDialector(d gorm.Dialector) OpenOption {
	return func(o *openOptions) { o.dialector = d }
}

// Open connects to the settlement database, sizes the pool from cfg and
// waits until the server answers a ping. Unique violations surface as
// gorm.ErrDuplicatedKey.
func Open(ctx context.Context, cfg *config.DatabaseConfig, opts ...OpenOption) (*Database, error) {
	o := openOptions{
		gormLog:  logger.Discard,
		log:      zap.NewNop(),
		attempts: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dialector == nil {
		o.dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(o.dialector, &gorm.Config{
		Logger:                 o.gormLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	d := &Database{DB: db}
	if err := d.waitReady(ctx, o); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) waitReady(ctx context.Context, o openOptions) error {
	wait := o.backoff
	var err error
	for attempt := 1; attempt <= o.attempts; attempt++ {
		if err = d.Ping(ctx); err == nil {
			return nil
		}
		if attempt == o.attempts {
			break
		}
		o.log.Warn("Database not ready",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("ping database after %d attempts: %w", o.attempts, err)
}

// Ping reports whether the database answers
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
