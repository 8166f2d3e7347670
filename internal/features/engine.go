package features

import (
	"errors"
	"fmt"
	"math"
	"time"

	"nba-matchup-lab/internal/domain"
)

// Defaults for feature construction.
const (
	DefaultWindow  = 10
	DefaultEpsilon = 1e-6
)

// Stage names reported to a StageObserver.
const (
	StageValidate = "validate"
	StageRolling  = "rolling"
	StagePairing  = "pairing"
	StageSelect   = "select"
	StageDerive   = "derive"
	StageGate     = "gate"
)

// ErrInvalidConfig is returned for an unusable feature configuration.
var ErrInvalidConfig = errors.New("invalid feature config")

// Config controls feature construction.
type Config struct {
	Window  int     // rolling window, in prior games
	Epsilon float64 // added to every derived-metric denominator
}

// DefaultConfig returns window 10 and epsilon 1e-6.
func DefaultConfig() Config {
	return Config{Window: DefaultWindow, Epsilon: DefaultEpsilon}
}

// Validate checks the window is positive and epsilon is positive and finite.
func (c Config) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("%w: window must be >= 1, got %d", ErrInvalidConfig, c.Window)
	}
	if !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 0) {
		return fmt.Errorf("%w: epsilon must be positive and finite, got %v", ErrInvalidConfig, c.Epsilon)
	}
	return nil
}

// StageObserver is called after each stage with its wall-clock duration.
type StageObserver func(stage string, d time.Duration)

// BuildResult is the output of one Engine.Build call.
type BuildResult struct {
	Vectors         []*domain.FeatureVector
	InputRecords    int
	PairedGames     int
	UnpairedGameIDs []string
	GatedRows       int
}

// Engine runs the feature stages over one table of game records:
// validate -> rolling -> pairing -> select -> derive -> gate.
type Engine struct {
	cfg      Config
	observer StageObserver
}

// NewEngine creates an Engine. Returns ErrInvalidConfig for a bad config.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// WithObserver sets a callback for per-stage durations.
func (e *Engine) WithObserver(fn StageObserver) *Engine {
	e.observer = fn
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Build turns game records (one season or several concatenated) into complete
// feature vectors. The input is not modified. Any schema violation fails the
// whole build with no partial output.
func (e *Engine) Build(records []*domain.GameRecord) (*BuildResult, error) {
	start := time.Now()
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("validate records: %w", err)
		}
	}
	start = e.observe(StageValidate, start)

	rolling := ComputeRollingFeatures(records, e.cfg.Window)
	start = e.observe(StageRolling, start)

	paired, err := PairHomeVisitor(rolling)
	if err != nil {
		return nil, fmt.Errorf("pair home and visitor: %w", err)
	}
	start = e.observe(StagePairing, start)

	selected := SelectFeatures(paired.Pairs, e.cfg.Window)
	start = e.observe(StageSelect, start)

	derived := ComputeDerivedMetrics(selected, e.cfg.Epsilon)
	start = e.observe(StageDerive, start)

	vectors, gated := ApplyCompletenessGate(derived)
	e.observe(StageGate, start)

	return &BuildResult{
		Vectors:         vectors,
		InputRecords:    len(records),
		PairedGames:     len(paired.Pairs),
		UnpairedGameIDs: paired.UnpairedGameIDs,
		GatedRows:       gated,
	}, nil
}

func (e *Engine) observe(stage string, start time.Time) time.Time {
	now := time.Now()
	if e.observer != nil {
		e.observer(stage, now.Sub(start))
	}
	return now
}
