package core

import (
	"math/rand/v2"
	"time"

	"github.com/JonMunkholm/usersvc/internal/config"
	"github.com/google/uuid"
)

// Fallbacks for zero values in config.UsersConfig.
const (
	DefaultPageSize        = 10
	DefaultBulkMax         = 10000
	DefaultInsertBatchSize = 1000
	DefaultSeedCount       = 5000
)

// Service provides the user-record operations.
type Service struct {
	store   Store
	limiter *BulkLimiter
	cfg     config.UsersConfig

	newRand func() *rand.Rand
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRand overrides the random source used by the seeder.
func WithRand(newRand func() *rand.Rand) Option {
	return func(s *Service) { s.newRand = newRand }
}

// WithClock overrides the clock used for seeder fallback emails.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBulkLimiter shares a limiter between services, or replaces the one
// built from cfg.
func WithBulkLimiter(l *BulkLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// NewService creates a Service backed by store.
func NewService(store Store, cfg config.UsersConfig, opts ...Option) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.BulkMax <= 0 {
		cfg.BulkMax = DefaultBulkMax
	}
	if cfg.InsertBatchSize <= 0 {
		cfg.InsertBatchSize = DefaultInsertBatchSize
	}
	if cfg.SeedDefaultCount <= 0 {
		cfg.SeedDefaultCount = DefaultSeedCount
	}

	s := &Service{
		store: store,
		cfg:   cfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewBulkLimiter(cfg.BulkMaxConcurrent, cfg.BulkMaxWait)
	}

	return s
}

// Limiter returns the limiter guarding bulk operations.
func (s *Service) Limiter() *BulkLimiter {
	return s.limiter
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// ParseID parses a client-supplied user ID. Anything that is not a UUID is
// ErrInvalidID.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
