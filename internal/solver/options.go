package solver

// LogLevel is the requested verbosity of a solve. The engine does not
// read it; search tracing through internal/solver/trace ("VISUALIZE=true")
// is switched on by setting Engine.Trace.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogBasic
	LogDetailed
)

func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogBasic:
		return "basic"
	case LogDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// SolveOptions tunes every dial exposed over preprocessing, caching,
// heuristics, and the search loop. Zero value is not a usable
// configuration — use DefaultSolveOptions or one of the
// CreateOptimalConfig presets.
type SolveOptions struct {
	MaxTimeMs                 int
	UseHeuristics             bool
	EnableOptimizations       bool
	PreprocessingLevel        int // 0..3
	EnableCaching             bool
	MaxCacheSize              int
	EnableIncrementalSolving  bool
	EnableEarlyTermination    bool
	EarlyTerminationThreshold int // 0..100, percent of students scheduled
	LogLevel                  LogLevel
	CountAllSolutions         bool
}

// DefaultSolveOptions returns the baseline dial settings: full
// preprocessing, heuristics and caching on, no early termination, no
// tracing.
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{
		MaxTimeMs:                 5000,
		UseHeuristics:             true,
		EnableOptimizations:       true,
		PreprocessingLevel:        2,
		EnableCaching:             true,
		MaxCacheSize:              10000,
		EnableIncrementalSolving:  false,
		EnableEarlyTermination:    false,
		EarlyTerminationThreshold: 90,
		LogLevel:                  LogNone,
		CountAllSolutions:         false,
	}
}

// CreateOptimalConfig scales the dials to a problem's size with a
// monotone lookup table: larger problems get a larger time budget,
// lower preprocessing level (the marginal cost of full AC-3 stops
// paying for itself once the search space is already small), and a
// cache sized to the work.
func CreateOptimalConfig(studentCount int) SolveOptions {
	opts := DefaultSolveOptions()
	switch {
	case studentCount <= 5:
		opts.MaxTimeMs = 1000
		opts.PreprocessingLevel = 3
		opts.MaxCacheSize = 1000
	case studentCount <= 15:
		opts.MaxTimeMs = 5000
		opts.PreprocessingLevel = 2
		opts.MaxCacheSize = 10000
	case studentCount <= 30:
		opts.MaxTimeMs = 15000
		opts.PreprocessingLevel = 2
		opts.MaxCacheSize = 50000
		opts.EnableEarlyTermination = true
	default:
		opts.MaxTimeMs = 30000
		opts.PreprocessingLevel = 1
		opts.MaxCacheSize = 100000
		opts.EnableEarlyTermination = true
		opts.EarlyTerminationThreshold = 80
	}
	return opts
}
