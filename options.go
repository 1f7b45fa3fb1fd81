package kiln

import (
	"github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
)

// Option configures a root provider. Child scopes inherit the root's options.
type Option func(*options)

type options struct {
	logger     log.Logger
	metrics    metrics.MetricFactory
	middleware []Middleware
}

// WithLogger sets the logger used for resolution and disposal events.
// The default logger discards everything.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records resolution, construction and disposal counters.
func WithMetrics(m metrics.MetricFactory) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMiddleware appends middleware. Middleware run in the order added.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// mergeOptions applies opts over the defaults.
func mergeOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	return o
}

// Metric names recorded when WithMetrics is set.
const (
	MetricResolutions        = "kiln_resolutions_total"
	MetricResolutionFailures = "kiln_resolution_failures_total"
	MetricConstructions      = "kiln_constructions_total"
	MetricDisposals          = "kiln_disposals_total"
	MetricActiveScopes       = "kiln_active_scopes"
)

// instruments holds the metrics of one scope tree. A nil factory leaves
// every instrument nil and the record methods do nothing.
type instruments struct {
	resolutions   metrics.Counter
	failures      metrics.Counter
	constructions metrics.Counter
	disposals     metrics.Counter
	activeScopes  metrics.Gauge
}

func newInstruments(m metrics.MetricFactory) *instruments {
	if m == nil {
		return &instruments{}
	}

	return &instruments{
		resolutions:   m.Counter(MetricResolutions),
		failures:      m.Counter(MetricResolutionFailures),
		constructions: m.Counter(MetricConstructions),
		disposals:     m.Counter(MetricDisposals),
		activeScopes:  m.Gauge(MetricActiveScopes),
	}
}

func (i *instruments) resolved(err error) {
	if i.resolutions == nil {
		return
	}

	i.resolutions.Inc()
	if err != nil {
		i.failures.Inc()
	}
}

func (i *instruments) constructed() {
	if i.constructions != nil {
		i.constructions.Inc()
	}
}

func (i *instruments) disposed(n int) {
	if i.disposals != nil {
		i.disposals.Add(float64(n))
	}
}

func (i *instruments) scopeOpened() {
	if i.activeScopes != nil {
		i.activeScopes.Inc()
	}
}

func (i *instruments) scopeClosed() {
	if i.activeScopes != nil {
		i.activeScopes.Dec()
	}
}
