package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/models"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
	"golang.org/x/time/rate"
)

// sessionTTL bounds how long accumulated conflicts outlive a run that never
// drained them.
const sessionTTL = time.Hour

// Engine drives the paginated transfer loop. Each run walks one remote
// collection page by page through its pipeline, pacing cycles with a rate
// limiter and publishing progress along the way.
type Engine struct {
	source   services.RemoteSource
	registry *Registry
	cache    SessionCache
	config   shared.MigrationConfig
	limiter  *rate.Limiter
	logger   *log.Logger
	updates  chan<- ProgressUpdate
}

// NewEngine creates a transfer engine. The config's PageDelaySeconds paces
// page cycles; zero means no pacing.
func NewEngine(source services.RemoteSource, registry *Registry, cache SessionCache, config shared.MigrationConfig, logger *log.Logger) *Engine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.PageDelaySeconds > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(config.PageDelaySeconds)*time.Second), 1)
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Engine{
		source:   source,
		registry: registry,
		cache:    cache,
		config:   config,
		limiter:  limiter,
		logger:   logger,
	}
}

// SetUpdates points progress publication at a channel. Sends never block; an
// observer that falls behind misses snapshots, not the migration.
func (e *Engine) SetUpdates(ch chan<- ProgressUpdate) {
	e.updates = ch
}

// Run migrates one entity kind end to end and reports what happened.
//
// The loop is a cycle of fetch, ingest, advance: the state's percentage only
// ever grows, and the run completes when the page counter walks past the total
// the first fetch established. An empty collection still reports one page, so
// the loop always terminates.
func (e *Engine) Run(ctx context.Context, kind models.EntityKind) (*Report, error) {
	pipe, err := e.registry.Lookup(kind)
	if err != nil {
		return nil, err
	}

	report := &Report{Kind: kind, StartedAt: time.Now()}
	defer func() { report.FinishedAt = time.Now() }()

	e.publish(NewProgressUpdate(kind, PhaseVerifying, nil, "verifying access to %s", e.source.Name()))
	if err := e.source.VerifyAccess(ctx); err != nil {
		e.publish(NewProgressUpdate(kind, PhaseFailed, nil, "access check failed"))
		return report, err
	}

	state := &models.TransferState{Page: 1, PerPage: e.config.PerPage(string(kind))}
	sessionKey := fmt.Sprintf("conflicts:%s:%s", kind, shared.GenerateID())
	defer e.cache.Clear(sessionKey)

	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("transfer interrupted: %w", err)
		}

		e.publish(NewProgressUpdate(kind, PhaseFetching, state, "fetching page %d", state.Page))
		batch, err := pipe.Fetch(ctx, state)
		if err != nil {
			e.publish(NewProgressUpdate(kind, PhaseFailed, state, "fetch failed on page %d", state.Page))
			return report, err
		}

		e.publish(NewProgressUpdate(kind, PhaseIngesting, state, "ingesting %d records", batch.Len()))
		if err := pipe.Ingest(ctx, batch, state, report); err != nil {
			e.publish(NewProgressUpdate(kind, PhaseFailed, state, "ingest failed on page %d", state.Page))
			return report, err
		}

		report.Pages++
		state.Advance()
		e.cache.Set(sessionKey, append([]models.ConflictEntry(nil), report.Conflicts...), sessionTTL)
		e.publish(NewProgressUpdate(kind, PhaseAdvancing, state, "%.0f%% complete", state.Percentage))

		if state.Complete() {
			break
		}
	}

	e.logger.Info("migration finished",
		"kind", kind, "pages", report.Pages, "created", report.Created,
		"referenced", report.Referenced, "skipped", report.Skipped,
		"conflicted", report.Conflicted, "failed", report.Failed)
	e.publish(NewProgressUpdate(kind, PhaseComplete, state, "done: %d records", report.Total()))

	return report, nil
}

// RunAll migrates every kind in dependency order. A failed run aborts the
// sequence; completed reports are still returned alongside the error.
func (e *Engine) RunAll(ctx context.Context) ([]*Report, error) {
	var reports []*Report
	for _, kind := range e.registry.Order() {
		report, err := e.Run(ctx, kind)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, fmt.Errorf("migration of %s failed: %w", kind, err)
		}
	}
	return reports, nil
}

func (e *Engine) publish(update ProgressUpdate) {
	if e.updates == nil {
		return
	}
	select {
	case e.updates <- update:
	default:
	}
}
