package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Redirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_requests_total",
		Help: "Total redirect requests served.",
	})
	LinksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "links_created_total",
		Help: "Total aliases created.",
	})
	LinksDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "links_deleted_total",
		Help: "Total aliases deleted.",
	})
	EventsQueued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_events_queued_total",
		Help: "Access events enqueued by the redirect path.",
	})
	EventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_events_dropped_total",
		Help: "Access events dropped due to a full queue.",
	})
	EventsMerged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_events_merged_total",
		Help: "Access events merged into link metadata.",
	})
	EventsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_events_discarded_total",
		Help: "Access events discarded because their alias was removed.",
	})
)

func init() {
	prometheus.MustRegister(Redirects, LinksCreated, LinksDeleted,
		EventsQueued, EventsDropped, EventsMerged, EventsDiscarded)
}

func Handler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
