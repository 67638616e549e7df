package verifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"indigenousverify/internal/domain"
	"indigenousverify/internal/observability"
	"indigenousverify/internal/ports"
)

// Service records verdicts into a StateStore. One mutex guards the
// load-record-save cycle so concurrent checks in this process never
// overwrite each other.
type Service struct {
	verifier ports.Verifier
	store    ports.StateStore
	metrics  *observability.Metrics
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(verifier ports.Verifier, store ports.StateStore, opts ...Option) *Service {
	s := &Service{verifier: verifier, store: store, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "verifications")
	return s
}

// Check verifies businessNumber, stamps it and records it.
func (s *Service) Check(ctx context.Context, businessNumber string) (domain.Verdict, error) {
	verdict := s.verifier.Verify(businessNumber)
	verdict.Timestamp = s.now().Local().Format(domain.TimestampLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return domain.Verdict{}, err
	}
	state.Record(verdict)

	start := time.Now()
	err = s.store.Save(ctx, state)
	s.metrics.ObserveStore("save", start, err)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("save state: %w", err)
	}

	s.metrics.RecordVerdict(verdict.Status)
	s.logger.Debug("verification recorded",
		"status", verdict.Status,
		"total", state.Stats.Total,
		"history", len(state.Verifications))
	return verdict, nil
}

// Stats returns the counters and the most recent verdicts, newest first.
func (s *Service) Stats(ctx context.Context) (domain.Stats, []domain.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return domain.Stats{}, nil, err
	}
	return state.Stats, state.Recent(domain.RecentLimit), nil
}

func (s *Service) load(ctx context.Context) (domain.State, error) {
	start := time.Now()
	state, err := s.store.Load(ctx)
	s.metrics.ObserveStore("load", start, err)
	if err != nil {
		return domain.State{}, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}
