package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/infrastructure/metrics"
	"github.com/secangkircinta/scug/internal/ports"
)

// managedPrefixes are the storage roots whose objects are owned by records
var managedPrefixes = []string{"media", "covers", "reports"}

// SweeperService deletes stored objects that no record references. Objects
// younger than the grace period are kept since an upload may be between
// storing its object and inserting its record.
type SweeperService struct {
	repos       ports.Repositories
	storage     ports.ObjectStorage
	interval    time.Duration
	gracePeriod time.Duration
	metrics     *metrics.Metrics
	logger      *logger.Logger
	now         Clock

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSweeperService creates a new sweeper
func NewSweeperService(repos ports.Repositories, storage ports.ObjectStorage, interval, gracePeriod time.Duration, m *metrics.Metrics, logger *logger.Logger) *SweeperService {
	return &SweeperService{
		repos:       repos,
		storage:     storage,
		interval:    interval,
		gracePeriod: gracePeriod,
		metrics:     m,
		logger:      logger.WithComponent("sweeper"),
		now:         utcNow,
	}
}

// Sweep runs one pass over every managed prefix
func (s *SweeperService) Sweep(ctx context.Context) (*ports.SweepReport, error) {
	referenced, err := s.referencedPaths(ctx)
	if err != nil {
		return nil, err
	}

	report := &ports.SweepReport{}
	cutoff := s.now().Add(-s.gracePeriod)

	for _, prefix := range managedPrefixes {
		objects, err := s.storage.List(ctx, prefix)
		if err != nil {
			return report, fmt.Errorf("failed to list %s objects: %w", prefix, err)
		}

		for _, object := range objects {
			report.Scanned++
			if _, ok := referenced[object.Path]; ok {
				report.Referenced++
				continue
			}
			if object.ModTime.After(cutoff) {
				continue
			}

			if err := s.storage.Delete(ctx, object.Path); err != nil {
				report.Failed++
				s.logger.WithError(err).Warnw("Failed to delete orphan object", "object_path", object.Path)
				continue
			}
			report.Deleted++
			s.logger.Infow("Orphan object deleted", "object_path", object.Path, "size", object.Size)
		}
	}

	s.metrics.AddOrphansDeleted(report.Deleted)

	return report, nil
}

func (s *SweeperService) referencedPaths(ctx context.Context) (map[string]struct{}, error) {
	sources := []struct {
		name  string
		paths func(context.Context) ([]string, error)
	}{
		{"media", s.repos.Media.ObjectPaths},
		{"cover", s.repos.Covers.ObjectPaths},
		{"report", s.repos.Reports.ObjectPaths},
	}

	referenced := map[string]struct{}{}
	for _, src := range sources {
		paths, err := src.paths(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s object paths: %w", src.name, err)
		}
		for _, p := range paths {
			referenced[p] = struct{}{}
		}
	}
	return referenced, nil
}

// Start runs Sweep on every tick until Stop is called or ctx is done
func (s *SweeperService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.interval <= 0 {
		return
	}

	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(ctx, s.stop, s.done)

	s.logger.Infow("Sweeper started", "interval", s.interval.String(), "grace_period", s.gracePeriod.String())
}

// Stop ends the loop and waits for a running pass to finish
func (s *SweeperService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Sweeper stopped")
}

func (s *SweeperService) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := s.Sweep(ctx)
			if err != nil {
				s.logger.WithError(err).Error("Orphan sweep failed")
				continue
			}
			s.logger.Infow("Orphan sweep finished",
				"scanned", report.Scanned,
				"deleted", report.Deleted,
				"failed", report.Failed,
			)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}
