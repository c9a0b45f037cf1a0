package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OAuth Flow Metrics
var (
	// LoginsStarted counts login redirects issued to Twitch.
	LoginsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oauth_logins_started_total",
			Help: "Total OAuth login redirects issued",
		},
	)

	// CallbacksTotal counts OAuth callbacks by outcome
	// (success, rejected, upstream_error, internal_error).
	CallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauth_callbacks_total",
			Help: "Total OAuth callbacks by outcome",
		},
		[]string{"outcome"},
	)

	// UsersCreated counts users persisted on first login.
	UsersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total users created on first login",
		},
	)

	// TokenRefreshes counts refresh-token grants by status.
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Total token refresh requests by status",
		},
		[]string{"status"},
	)
)

// Twitch API Metrics
var (
	// TwitchRequestDuration tracks outbound Twitch call latency by endpoint.
	TwitchRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twitch_request_duration_seconds",
			Help:    "Twitch API request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// TwitchRequestErrors tracks failed Twitch calls by endpoint and status.
	TwitchRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitch_request_errors_total",
			Help: "Total failed Twitch API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "status"},
	)
)
