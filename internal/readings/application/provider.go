package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"condmon-cloud/internal/observability/metrics"
	readings "condmon-cloud/internal/readings/domain"
)

// Loader performs the one-shot bulk load of the working set.
type Loader interface {
	Load(ctx context.Context) ([]readings.Reading, []readings.AlarmBand, error)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SnapshotProvider owns the cached working set. A snapshot older than the
// refresh interval is reloaded on the next request; callers always get an
// immutable view and must not mutate it.
type SnapshotProvider struct {
	loader   Loader
	keys     []readings.JoinKey
	interval time.Duration
	clock    Clock

	mu      sync.Mutex
	current *readings.Snapshot
}

// ProviderOption customizes the snapshot provider.
type ProviderOption func(*SnapshotProvider)

// WithClock assigns a clock.
func WithClock(clock Clock) ProviderOption {
	return func(p *SnapshotProvider) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewSnapshotProvider constructs a provider over a loader.
func NewSnapshotProvider(loader Loader, cfg Config, opts ...ProviderOption) (*SnapshotProvider, error) {
	if loader == nil {
		return nil, errors.New("readings provider: nil loader")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, errors.New("readings provider: refresh interval must be positive")
	}
	if err := readings.ValidateJoinKeys(cfg.JoinKeys); err != nil {
		return nil, err
	}
	provider := &SnapshotProvider{
		loader:   loader,
		keys:     cfg.JoinKeys,
		interval: cfg.RefreshInterval,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider, nil
}

// Snapshot returns the cached snapshot, reloading it when stale.
func (p *SnapshotProvider) Snapshot(ctx context.Context) (*readings.Snapshot, error) {
	if p == nil {
		return nil, errors.New("readings provider: nil provider")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.current.Age(p.clock.Now()) < p.interval {
		return p.current, nil
	}
	return p.reloadLocked(ctx)
}

// Refresh discards the cached snapshot and reloads immediately.
func (p *SnapshotProvider) Refresh(ctx context.Context) (*readings.Snapshot, error) {
	if p == nil {
		return nil, errors.New("readings provider: nil provider")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloadLocked(ctx)
}

func (p *SnapshotProvider) reloadLocked(ctx context.Context) (*readings.Snapshot, error) {
	start := p.clock.Now()
	loaded, bands, err := p.loader.Load(ctx)
	if err != nil {
		metrics.ObserveSnapshotRefresh(metrics.ResultError, p.clock.Now().Sub(start))
		return nil, err
	}

	// Rows with unparseable timestamps never enter the working set.
	kept := make([]readings.Reading, 0, len(loaded))
	for _, r := range loaded {
		if r.Valid() {
			kept = append(kept, r)
		}
	}

	index, err := readings.NewBandIndex(bands, p.keys)
	if err != nil {
		metrics.ObserveSnapshotRefresh(metrics.ResultError, p.clock.Now().Sub(start))
		return nil, err
	}

	p.current = &readings.Snapshot{
		Readings: kept,
		Bands:    index,
		LoadedAt: p.clock.Now(),
	}
	metrics.ObserveSnapshotRefresh(metrics.ResultSuccess, p.clock.Now().Sub(start))
	metrics.SetSnapshotReadings(len(kept))
	return p.current, nil
}
