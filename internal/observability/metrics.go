// ABOUTME: Prometheus counters for catalog loads, autosaves, submissions and workouts.
// ABOUTME: Metrics live on an injectable registry so tests and commands can gather them.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "routines"

// Label values.
const (
	SourceCache  = "cache"
	SourceRemote = "remote"
	SourceDemo   = "demo"

	ResultOK      = "ok"
	ResultError   = "error"
	ResultStale   = "stale"
	ResultFailed  = "failed"
	ResultInvalid = "invalid"

	EventStart  = "start"
	EventFinish = "finish"
)

type Metrics struct {
	CounterCatalogLoads   *prometheus.CounterVec
	CounterDraftAutosaves *prometheus.CounterVec
	CounterSubmissions    *prometheus.CounterVec
	CounterWorkoutEvents  *prometheus.CounterVec
}

func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func NewTestMetricsAndRegistry() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewMetrics(reg), reg
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CounterCatalogLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Exercise catalog loads by the source that served them",
		}, []string{"source"}),
		CounterDraftAutosaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_autosaves_total",
			Help:      "Draft autosave writes by result",
		}, []string{"result"}),
		CounterSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Routine submissions by result",
		}, []string{"result"}),
		CounterWorkoutEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workout_events_total",
			Help:      "Active workout starts and finishes",
		}, []string{"event", "result"}),
	}
}

// CatalogLoad counts a catalog load served from source.
func (m *Metrics) CatalogLoad(source string) {
	if m == nil {
		return
	}
	m.CounterCatalogLoads.WithLabelValues(source).Inc()
}

// DraftAutosave counts one autosave outcome.
func (m *Metrics) DraftAutosave(result string) {
	if m == nil {
		return
	}
	m.CounterDraftAutosaves.WithLabelValues(result).Inc()
}

// Submission counts one submission outcome.
func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}
	m.CounterSubmissions.WithLabelValues(result).Inc()
}

// WorkoutEvent counts a workout start or finish.
func (m *Metrics) WorkoutEvent(event string, ok bool) {
	if m == nil {
		return
	}
	result := ResultOK
	if !ok {
		result = ResultError
	}
	m.CounterWorkoutEvents.WithLabelValues(event, result).Inc()
}
