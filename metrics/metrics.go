// Package metrics provides the Prometheus collectors exported by the
// Cookies & Milk server and the HTTP middleware that feeds them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiemilk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cookiemilk_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MovesTotal counts place attempts by team and result code
	// ("ok", "invalid_column", "column_full", "game_over").
	MovesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiemilk_moves_total",
			Help: "Place attempts",
		},
		[]string{"team", "result"},
	)

	// GamesFinishedTotal counts games that reached a terminal status through a
	// move, by outcome ("cookie", "milk", "draw").
	GamesFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiemilk_games_finished_total",
			Help: "Finished games",
		},
		[]string{"outcome"},
	)

	// ResetsTotal counts board resets.
	ResetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cookiemilk_resets_total",
			Help: "Board resets",
		},
	)

	// RandomBoardsTotal counts generated random boards.
	RandomBoardsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cookiemilk_random_boards_total",
			Help: "Random boards generated",
		},
	)

	// ActiveSessions tracks the number of sessions held in memory.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cookiemilk_sessions_active",
			Help: "Active sessions",
		},
	)

	// WebSocketClients tracks connected WebSocket subscribers.
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cookiemilk_websocket_clients",
			Help: "Connected WebSocket clients",
		},
	)

	// RateLimitRejectedTotal counts requests rejected by the place limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cookiemilk_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		MovesTotal,
		GamesFinishedTotal,
		ResetsTotal,
		RandomBoardsTotal,
		ActiveSessions,
		WebSocketClients,
		RateLimitRejectedTotal,
	)
}
