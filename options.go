package icpgo

import (
	"log/slog"

	"github.com/hupe1980/icpgo/nns"
	"github.com/hupe1980/icpgo/nns/kdtree"
)

// IndexFactory builds a nearest-neighbor index over target points.
type IndexFactory func(points [][3]float32) nns.Index

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	numWorkers       int
	newIndex         IndexFactory
}

// Option configures a registration call.
type Option func(*options)

// WithLogger configures structured logging for the registration
// pipeline. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// search, estimation and iteration phases.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

// WithNumWorkers sets the parallelism for correspondence search.
// Non-positive selects GOMAXPROCS.
func WithNumWorkers(numWorkers int) Option {
	return func(o *options) {
		o.numWorkers = numWorkers
	}
}

// WithIndexFactory overrides the nearest-neighbor backend used for the
// target cloud. The default is the kd-tree; the flat backend is mainly
// useful for cross-checking.
func WithIndexFactory(factory IndexFactory) Option {
	return func(o *options) {
		if factory != nil {
			o.newIndex = factory
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.newIndex == nil {
		workers := o.numWorkers
		o.newIndex = func(points [][3]float32) nns.Index {
			return kdtree.New(points, func(ko *kdtree.Options) {
				ko.NumWorkers = workers
			})
		}
	}
	return o
}
