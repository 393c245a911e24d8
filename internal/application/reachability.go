package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

const (
	DefaultProbeTimeout  = 5 * time.Second
	DefaultProbeInterval = 30 * time.Second
)

// ReachabilityService cycles candidate endpoints, selects the first
// reachable one, and maintains the current status snapshot. It never
// returns an error to callers: every failure is absorbed into the status
// and retried on the next cycle, degrading the application to mock mode in
// the meantime. The cycle runs independently of session operations.
type ReachabilityService struct {
	prober     ports.EndpointProber
	candidates []domain.Endpoint
	clock      ports.Clock
	timeout    time.Duration
	interval   time.Duration

	mu     sync.RWMutex
	status domain.ReachabilityStatus

	refresh chan struct{}
}

// NewReachabilityService builds a prober over the given ordered candidates.
// An explicit endpoint override belongs at the head of candidates; the
// caller decides whether one is present.
func NewReachabilityService(prober ports.EndpointProber, candidates []domain.Endpoint, clock ports.Clock) *ReachabilityService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ReachabilityService{
		prober:     prober,
		candidates: candidates,
		clock:      clock,
		timeout:    DefaultProbeTimeout,
		interval:   DefaultProbeInterval,
		status:     domain.MockStatus(time.Time{}, "not yet probed"),
		refresh:    make(chan struct{}, 1),
	}
}

// SetTimings overrides the per-candidate timeout and the cycle interval.
// Zero values keep the current setting.
func (s *ReachabilityService) SetTimings(timeout, interval time.Duration) {
	if timeout > 0 {
		s.timeout = timeout
	}
	if interval > 0 {
		s.interval = interval
	}
}

// Status returns the latest snapshot.
func (s *ReachabilityService) Status() domain.ReachabilityStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Check runs one full probe cycle and publishes a fresh snapshot. The first
// candidate to answer within the timeout wins; if none does, the result is
// mock mode carrying the last failure.
func (s *ReachabilityService) Check(ctx context.Context) domain.ReachabilityStatus {
	status := s.cycle(ctx)

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	return status
}

// Refresh requests an out-of-band cycle from a running Run loop, e.g. after
// the user changes network settings. It never blocks.
func (s *ReachabilityService) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Run probes immediately, then on every interval tick or Refresh signal,
// until ctx is cancelled.
func (s *ReachabilityService) Run(ctx context.Context) {
	s.Check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		case <-s.refresh:
			s.Check(ctx)
		}
	}
}

func (s *ReachabilityService) cycle(ctx context.Context) domain.ReachabilityStatus {
	var lastErr string

	for i := range s.candidates {
		endpoint := s.candidates[i]

		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		latency, err := s.prober.Probe(probeCtx, endpoint)
		cancel()

		if err != nil {
			lastErr = fmt.Sprintf("%s: %v", endpoint.Name, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		return domain.ReachabilityStatus{
			Connected:     true,
			Endpoint:      &endpoint,
			NetworkKind:   endpoint.Kind,
			Latency:       latency,
			LastCheckedAt: s.clock.Now(),
		}
	}

	if lastErr == "" {
		lastErr = "no candidate endpoints configured"
	}
	return domain.MockStatus(s.clock.Now(), lastErr)
}
