package data

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Result cache
	CacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salesgrid_cache_requests_total",
		Help: "The total number of result cache lookups",
	}, []string{"result"})

	// Resolution
	Resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salesgrid_resolutions_total",
		Help: "The total number of queries resolved without the cache",
	}, []string{"mode"})

	ResolutionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salesgrid_resolution_errors_total",
		Help: "The total number of failed query resolutions",
	}, []string{"mode"})

	ResolutionLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "salesgrid_resolution_latency_seconds",
		Help: "The latency of query resolution",
	}, []string{"mode"})

	// Reference collections
	ReferenceLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salesgrid_reference_loads_total",
		Help: "The total number of reference collection loads",
	}, []string{"collection", "status"})
)

func init() {
	prometheus.MustRegister(CacheRequests)
	prometheus.MustRegister(Resolutions)
	prometheus.MustRegister(ResolutionErrors)
	prometheus.MustRegister(ResolutionLatency)
	prometheus.MustRegister(ReferenceLoads)
}
