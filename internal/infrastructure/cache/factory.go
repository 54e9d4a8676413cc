package cache

import (
	"fmt"
	"io"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ClosableGuard is a submission guard holding resources
type ClosableGuard interface {
	settlement.SubmissionGuard
	io.Closer
}

// SubmissionGuardFactory creates submission guards based on configuration
type SubmissionGuardFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SubmissionGuardFactoryOption is a functional option for configuring the factory
type SubmissionGuardFactoryOption func(*SubmissionGuardFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SubmissionGuardFactoryOption {
	return func(f *SubmissionGuardFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory guard when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) SubmissionGuardFactoryOption {
	return func(f *SubmissionGuardFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSubmissionGuardFactory creates a new factory
func NewSubmissionGuardFactory(cfg config.RedisConfig, opts ...SubmissionGuardFactoryOption) *SubmissionGuardFactory {
	f := &SubmissionGuardFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateGuard tries Redis first and falls back to the in-memory guard when
// Redis is unreachable and the fallback is allowed
func (f *SubmissionGuardFactory) CreateGuard() (ClosableGuard, error) {
	guard, err := NewRedisSubmissionGuard(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis submission guard")
		return guard, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for the submission guard but unavailable: %w", err)
	}

	// the database unique index still rejects duplicates across instances
	f.logger.Warn("Redis unavailable, falling back to in-memory submission guard",
		zap.Error(err),
	)
	return NewInMemorySubmissionGuard(), nil
}
