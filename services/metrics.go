package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	facetSetsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facetconfig_facetsets_rendered_total",
		Help: "The total number of facet sets rendered, by output format",
	}, []string{"format"})
	facetSetErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facetconfig_facetset_errors_total",
		Help: "The total number of facet sets rejected, by error kind",
	}, []string{"kind"})
)

func observeError(err error) error {
	if err != nil {
		facetSetErrors.WithLabelValues(ErrorKind(err)).Inc()
	}
	return err
}
