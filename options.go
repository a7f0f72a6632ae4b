package querycache

import (
	"log/slog"

	"github.com/hupe1980/querycache/resource"
)

type options struct {
	properties       Properties
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures a Cache.
type Option func(*options)

// WithMode sets the initial cache mode. The default is ModeOff.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.properties.Mode = m
	}
}

// WithMaxResults sets the initial per-database ceiling.
// The default is DefaultMaxResults.
func WithMaxResults(n int) Option {
	return func(o *options) {
		o.properties.MaxResults = n
	}
}

// WithProperties sets mode and ceiling at once.
func WithProperties(p Properties) Option {
	return func(o *options) {
		o.properties = p
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &querycache.BasicMetricsCollector{}
//	qc, _ := querycache.New(querycache.WithMetricsCollector(metrics))
//	// ... use qc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Lookups: %d, hit ratio: %.2f\n", stats.LookupCount, stats.HitRatio)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds the bytes held by cached entries across
// all databases. Stores that would exceed the budget are skipped.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		properties:       DefaultProperties(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
