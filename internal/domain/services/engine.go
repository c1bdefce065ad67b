package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
)

// ScoringMethod identifies the six-dimension scoring method in metadata.
const ScoringMethod = "6d"

// Default engine settings.
const (
	DefaultWorkers          = 12
	DefaultMinReplayEvents  = 3
	DefaultMaxReplayPoints  = 50
	DefaultPatternThreshold = 2
	DefaultMaxInsights      = 8
	DefaultHistoryWindow    = 30
)

// EngineConfig tunes the engine.
type EngineConfig struct {
	// Workers bounds the scorer tasks running at once across all requests.
	Workers          int64
	MinReplayEvents  int
	MaxReplayPoints  int
	PatternThreshold int
	MaxInsights      int
	HistoryWindow    int
}

// DefaultEngineConfig returns the default engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Workers:          DefaultWorkers,
		MinReplayEvents:  DefaultMinReplayEvents,
		MaxReplayPoints:  DefaultMaxReplayPoints,
		PatternThreshold: DefaultPatternThreshold,
		MaxInsights:      DefaultMaxInsights,
		HistoryWindow:    DefaultHistoryWindow,
	}
}

// withDefaults replaces non-positive settings with defaults. MinReplayEvents
// is a floor: replay never emits a point for fewer than three events.
func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MinReplayEvents < d.MinReplayEvents {
		c.MinReplayEvents = d.MinReplayEvents
	}
	if c.MaxReplayPoints <= 0 {
		c.MaxReplayPoints = d.MaxReplayPoints
	}
	if c.PatternThreshold <= 0 {
		c.PatternThreshold = d.PatternThreshold
	}
	if c.MaxInsights <= 0 {
		c.MaxInsights = d.MaxInsights
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = d.HistoryWindow
	}
	return c
}

// Engine computes trust scores, analytics and replays. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	cfg     EngineConfig
	sem     *semaphore.Weighted
	logger  *zap.Logger
	metrics ports.Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(cfg EngineConfig) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg.withDefaults()
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m ports.Metrics) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine creates a new Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:     DefaultEngineConfig(),
		logger:  zap.NewNop(),
		metrics: ports.NopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sem = semaphore.NewWeighted(e.cfg.Workers)
	return e
}

// Config returns the effective engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// ScoreOption configures a single scoring request.
type ScoreOption func(*scoreOptions)

type scoreOptions struct {
	history []entities.Snapshot
	now     time.Time
}

// WithHistory supplies prior snapshots for temporal scoring.
func WithHistory(history []entities.Snapshot) ScoreOption {
	return func(o *scoreOptions) {
		o.history = history
	}
}

// WithNow fixes the reference time of the request. Without it the
// reference time is derived from the inputs, see referenceTime.
func WithNow(now time.Time) ScoreOption {
	return func(o *scoreOptions) {
		o.now = now
	}
}

func buildScoreOptions(opts []ScoreOption) scoreOptions {
	var o scoreOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// referenceTime is the latest of the entity creation time and the newest
// event timestamp. events must be sorted.
func referenceTime(entity *entities.Entity, events []entities.Event) time.Time {
	ref := entity.CreatedAt
	if n := len(events); n > 0 && events[n-1].Timestamp.After(ref) {
		ref = events[n-1].Timestamp
	}
	return ref.UTC()
}

// Score computes the trust score of an entity from its events.
// The six scorers run concurrently and are joined before synthesis; the
// call either returns a complete score or an error.
func (e *Engine) Score(ctx context.Context, entity *entities.Entity, events []entities.Event, opts ...ScoreOption) (*entities.TrustScore, error) {
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("validating entity: %w", err)
	}
	o := buildScoreOptions(opts)
	start := time.Now()

	clean, malformed := sanitizeEvents(entity, events)
	if malformed > 0 {
		e.logger.Warn("malformed events treated as neutral",
			zap.String("entity_id", entity.ID),
			zap.Int("malformed", malformed),
			zap.Int("events", len(events)))
		e.metrics.ObserveMalformed(malformed)
	}
	if o.now.IsZero() {
		o.now = referenceTime(entity, clean)
	}

	in := ScoringInput{
		Entity:  entity,
		Events:  clean,
		History: historySeries(o.history, e.cfg.HistoryWindow),
		Now:     o.now,
	}

	dims, err := e.scoreDimensions(ctx, in)
	if err != nil {
		return nil, err
	}

	score := e.assemble(entity.ID, dims, len(clean), malformed, len(in.History), o.now)
	e.metrics.ObserveScore(score, time.Since(start))
	e.logger.Debug("entity scored",
		zap.String("entity_id", entity.ID),
		zap.Float64("composite", score.Composite),
		zap.Float64("chitty", score.Outputs.Chitty),
		zap.String("level", string(score.Level)))

	return score, nil
}

// scoreDimensions fans the scorers out and joins their results.
func (e *Engine) scoreDimensions(ctx context.Context, in ScoringInput) (entities.DimensionScores, error) {
	var dims entities.DimensionScores
	results := make([]float64, len(entities.AllDimensions))

	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range entities.AllDimensions {
		scorer := dimensionScorers[dim]
		g.Go(func() error {
			if err := e.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer e.sem.Release(1)
			results[i] = scorer(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dims, fmt.Errorf("scoring dimensions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return dims, fmt.Errorf("scoring dimensions: %w", err)
	}

	for i, dim := range entities.AllDimensions {
		dims.Set(dim, results[i])
	}
	return dims, nil
}

func (e *Engine) assemble(entityID string, dims entities.DimensionScores, events, malformed, historyPoints int, now time.Time) *entities.TrustScore {
	composite, outputs := Synthesize(dims)
	return &entities.TrustScore{
		EntityID:    entityID,
		Dimensions:  dims,
		Composite:   composite,
		Outputs:     outputs,
		Level:       LevelFor(composite),
		ChittyLevel: LevelFor(outputs.Chitty),
		Metadata: entities.ScoreMetadata{
			Confidence:      ConfidenceFor(events - malformed),
			LowConfidence:   events-malformed < LowConfidenceThreshold,
			EventCount:      events,
			MalformedEvents: malformed,
			HistoryPoints:   historyPoints,
			CalculatedAt:    now,
			Method:          ScoringMethod,
		},
	}
}

// sanitizeEvents returns a chronologically ordered copy of events with
// malformed events neutralized, and the number neutralized.
func sanitizeEvents(entity *entities.Entity, events []entities.Event) ([]entities.Event, int) {
	clean := make([]entities.Event, len(events))
	malformed := 0
	for i, ev := range events {
		if ev.IsMalformed(entity.CreatedAt) {
			clean[i] = ev.Neutralized()
			malformed++
			continue
		}
		clean[i] = ev
	}
	slices.SortStableFunc(clean, func(a, b entities.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return clean, malformed
}

// historySeries returns the composites of the most recent window snapshots,
// oldest first.
func historySeries(history []entities.Snapshot, window int) []float64 {
	if len(history) == 0 {
		return nil
	}
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b entities.Snapshot) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})
	if len(sorted) > window {
		sorted = sorted[len(sorted)-window:]
	}
	series := make([]float64, len(sorted))
	for i, s := range sorted {
		series[i] = s.Composite
	}
	return series
}
