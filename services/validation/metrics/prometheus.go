package metrics

import (
	"net/http"

	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
	adHocProject   = "adhoc"
)

// prometheusRecorder counts validation outcomes on its own registry
type prometheusRecorder struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	findings    *prometheus.CounterVec
}

// NewPrometheusRecorder creates the validation counters and registers them on a fresh registry
func NewPrometheusRecorder() *prometheusRecorder {
	registry := prometheus.NewRegistry()

	r := &prometheusRecorder{
		registry: registry,
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossval_validations_total",
				Help: "Total number of cross-source validations",
			},
			[]string{"project", "outcome"},
		),
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossval_findings_total",
				Help: "Total number of cross-source findings by code",
			},
			[]string{"code", "severity"},
		),
	}

	registry.MustRegister(r.validations, r.findings)

	return r
}

// RecordResult accounts a validation result. An empty project is counted as an ad-hoc validation.
func (r *prometheusRecorder) RecordResult(project string, result *validator.ValidationResult) {
	if result == nil {
		return
	}
	if len(project) == 0 {
		project = adHocProject
	}

	outcome := outcomeValid
	if !result.IsValid {
		outcome = outcomeInvalid
	}
	r.validations.WithLabelValues(project, outcome).Inc()

	for _, issue := range result.Errors {
		r.findings.WithLabelValues(issue.Code.String(), issue.Code.Severity().String()).Inc()
	}
	for _, issue := range result.Warnings {
		r.findings.WithLabelValues(issue.Code.String(), issue.Code.Severity().String()).Inc()
	}
}

// Handler returns the exposition handler of the registry
func (r *prometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *prometheusRecorder) IsInterfaceNil() bool {
	return r == nil
}
