package infra

import (
	"context"

	"guestbook-service/guestbook/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStats expõe guestbook_submissions_total{outcome,method}.
// Não usa o IP como label (cardinalidade).
type PrometheusStats struct {
	submissions *prometheus.CounterVec
}

func NewPrometheusStats(reg prometheus.Registerer) (*PrometheusStats, error) {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guestbook",
		Name:      "submissions_total",
		Help:      "Guestbook submissions by outcome.",
	}, []string{"outcome", "method"})
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return &PrometheusStats{submissions: c}, nil
}

func (p *PrometheusStats) Record(_ context.Context, ev domain.StatsEvent) error {
	p.submissions.WithLabelValues(string(ev.Outcome), ev.Method).Inc()
	return nil
}

// Counter devolve o contador de um par outcome/method (usado em testes e debug).
func (p *PrometheusStats) Counter(o domain.Outcome, method string) prometheus.Counter {
	return p.submissions.WithLabelValues(string(o), method)
}
