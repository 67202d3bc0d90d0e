package worker

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/station"
	"github.com/chargescout/chargescout/internal/station/voltgrid"
)

// StationSource provides the upstream list and detail fetches to warm.
type StationSource interface {
	FetchList(ctx context.Context, q voltgrid.Query) (*voltgrid.Page, error)
	FetchDetail(ctx context.Context, id int) (*station.Station, error)
}

// PrewarmJob warms the upstream station cache for the configured localities.
type PrewarmJob struct {
	config PrewarmConfig
	logger zerolog.Logger
	source StationSource
	store  SnapshotStore

	metrics *PrewarmMetrics
}

// PrewarmMetrics tracks prewarm job statistics.
type PrewarmMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns           int64
	SuccessfulWarms     int64
	FailedWarms         int64
	ListFetches         int64
	DetailFetches       int64
	FallbackSubstitutes int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// PrewarmJobConfig holds configuration for creating a PrewarmJob.
type PrewarmJobConfig struct {
	Config PrewarmConfig
	Logger zerolog.Logger
	Source StationSource

	// Store is optional; without it the job still warms the provider's
	// HTTP caches but persists nothing.
	Store SnapshotStore
}

// NewPrewarmJob creates a new prewarm job processor.
func NewPrewarmJob(cfg PrewarmJobConfig) *PrewarmJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultPrewarmConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &PrewarmJob{
		config:  config,
		logger:  cfg.Logger,
		source:  cfg.Source,
		store:   cfg.Store,
		metrics: &PrewarmMetrics{},
	}
}

// PrewarmResult contains the result of a prewarm run.
type PrewarmResult struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalTargets int
	Successful   int
	Failed       int
	Stations     int
	Errors       []PrewarmError
}

// PrewarmError represents an error during prewarm.
type PrewarmError struct {
	Locality string
	Error    string
}

// Run executes the prewarm job for all configured localities.
func (j *PrewarmJob) Run(ctx context.Context) *PrewarmResult {
	startTime := time.Now()
	result := &PrewarmResult{
		StartTime:    startTime,
		TotalTargets: j.config.TotalTargets(),
	}

	j.logger.Info().
		Int("total_targets", result.TotalTargets).
		Int("concurrency", j.config.Concurrency).
		Msg("starting station prewarm job")

	// Warm high-priority localities first
	targets := make([]PrewarmTarget, len(j.config.Targets))
	copy(targets, j.config.Targets)
	sort.SliceStable(targets, func(a, b int) bool {
		return targets[a].Priority < targets[b].Priority
	})

	targetsChan := make(chan PrewarmTarget, len(targets))
	resultsChan := make(chan targetResult, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmWorker(ctx, targetsChan, resultsChan)
		}()
	}

	for _, t := range targets {
		targetsChan <- t
	}
	close(targetsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for tr := range resultsChan {
		if tr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Stations += tr.stations
		result.Errors = append(result.Errors, tr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("stations", result.Stations).
		Msg("station prewarm job completed")

	return result
}

type targetResult struct {
	target   PrewarmTarget
	success  bool
	stations int
	errors   []PrewarmError
}

func (j *PrewarmJob) warmWorker(ctx context.Context, targets <-chan PrewarmTarget, results chan<- targetResult) {
	for target := range targets {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.warmTarget(ctx, target)
		}
	}
}

func (j *PrewarmJob) warmTarget(ctx context.Context, target PrewarmTarget) targetResult {
	result := targetResult{
		target:  target,
		success: true,
	}

	targetCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	radius := j.config.Radius
	if radius <= 0 {
		radius = DefaultPrewarmConfig().Radius
	}

	page, err := j.source.FetchList(targetCtx, voltgrid.Query{
		Search:    target.Name,
		Lat:       target.Lat,
		Lng:       target.Lng,
		Radius:    radius,
		HasCoords: true,
	})
	if err != nil {
		result.success = false
		result.errors = append(result.errors, PrewarmError{
			Locality: target.Name,
			Error:    err.Error(),
		})
		return result
	}
	atomic.AddInt64(&j.metrics.ListFetches, 1)
	if page.Fallback {
		atomic.AddInt64(&j.metrics.FallbackSubstitutes, 1)
	}

	stations := page.Stations
	station.NormalizeAll(stations, target.Lat, target.Lng, true)
	result.stations = len(stations)

	if j.store != nil {
		err := j.store.Save(targetCtx, Snapshot{
			Locality: target.Name,
			Stations: stations,
			Fallback: page.Fallback,
			WarmedAt: time.Now(),
		})
		if err != nil {
			result.success = false
			result.errors = append(result.errors, PrewarmError{
				Locality: target.Name,
				Error:    err.Error(),
			})
		}
	}

	if j.config.WarmDetails && !page.Fallback {
		j.warmDetails(targetCtx, target, stations, &result)
	}

	return result
}

// warmDetails fetches full records for the locality's top stations so the
// first drawer open after a cold start hits a warm upstream cache.
func (j *PrewarmJob) warmDetails(ctx context.Context, target PrewarmTarget, stations []station.Station, result *targetResult) {
	limit := j.config.DetailLimit
	if limit <= 0 {
		limit = DefaultPrewarmConfig().DetailLimit
	}
	if limit > len(stations) {
		limit = len(stations)
	}

	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			return
		}
		if _, err := j.source.FetchDetail(ctx, stations[i].ID); err != nil {
			// Detail misses are non-fatal; the drawer fetches on demand.
			j.logger.Warn().
				Err(err).
				Int("station_id", stations[i].ID).
				Str("locality", target.Name).
				Msg("detail warm failed")
			continue
		}
		atomic.AddInt64(&j.metrics.DetailFetches, 1)
	}
}

func (j *PrewarmJob) updateMetrics(result *PrewarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulWarms += int64(result.Successful)
	j.metrics.FailedWarms += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *PrewarmJob) GetMetrics() PrewarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return PrewarmMetrics{
		TotalRuns:           j.metrics.TotalRuns,
		SuccessfulWarms:     j.metrics.SuccessfulWarms,
		FailedWarms:         j.metrics.FailedWarms,
		ListFetches:         atomic.LoadInt64(&j.metrics.ListFetches),
		DetailFetches:       atomic.LoadInt64(&j.metrics.DetailFetches),
		FallbackSubstitutes: atomic.LoadInt64(&j.metrics.FallbackSubstitutes),
		LastRunAt:           j.metrics.LastRunAt,
		LastRunDuration:     j.metrics.LastRunDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *PrewarmJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":           m.TotalRuns,
		"successful_warms":     m.SuccessfulWarms,
		"failed_warms":         m.FailedWarms,
		"list_fetches":         m.ListFetches,
		"detail_fetches":       m.DetailFetches,
		"fallback_substitutes": m.FallbackSubstitutes,
		"last_run_at":          m.LastRunAt,
		"last_run_duration":    m.LastRunDuration.String(),
		"total_duration":       m.TotalDuration.String(),
	}
}
