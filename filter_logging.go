package breakfilter

import "time"

// Operations recorded on FilterLogEvent.
const (
	OpValidate = "validate"
	OpEvaluate = "evaluate"
)

// FilterLogEvent describes one validation or evaluation attempt.
type FilterLogEvent struct {
	Engine   string
	Op       string
	Expr     string
	Duration time.Duration
	CacheHit bool
	Err      error
}

// FilterLogger records evaluator events.
type FilterLogger interface {
	LogFilter(FilterLogEvent)
}

// FilterLoggerFunc adapts a function to FilterLogger.
type FilterLoggerFunc func(FilterLogEvent)

// LogFilter implements FilterLogger.
func (f FilterLoggerFunc) LogFilter(event FilterLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopFilterLogger struct{}

func (noopFilterLogger) LogFilter(FilterLogEvent) {}

// WithLogger attaches a logger to the evaluator. A nil logger restores the
// package-private noop.
func WithLogger(logger FilterLogger) Option {
	return func(e *FilterEvaluator) {
		if logger == nil {
			e.logger = noopFilterLogger{}
			return
		}
		e.logger = logger
	}
}
