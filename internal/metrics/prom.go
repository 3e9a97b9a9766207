package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	//nolint: revive
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezsite_feed_fetches_total",
			Help: "The total number of status feed fetches by result",
		},
		[]string{"result"},
	)

	//nolint: revive
	FeedFetchTimer = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ezsite_feed_fetch_seconds",
			Help: "The duration (seconds) for fetching and decoding the status feed",
		},
	)

	//nolint: revive
	CatalogGames = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ezsite_catalog_games",
			Help: "The number of games currently listed, by visibility tier",
		},
		[]string{"tier"},
	)

	//nolint: revive
	PagesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezsite_pages_rendered_total",
			Help: "The total number of rendered pages",
		},
		[]string{"page"},
	)

	//nolint: revive
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezsite_http_requests_total",
			Help: "The total number of HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	//nolint: revive
	HTTPRequestTimer = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ezsite_http_request_seconds",
			Help: "The duration (seconds) for serving HTTP requests",
		},
		[]string{"route"},
	)

	//nolint: revive
	FilesDeployed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ezsite_files_deployed_total",
			Help: "The total number of files uploaded to the deploy target",
		},
	)
)
