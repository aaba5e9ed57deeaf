package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RoundsStarted *prometheus.CounterVec
	GuessesScored *prometheus.CounterVec
	Points        *prometheus.HistogramVec
	DistanceKm    prometheus.Histogram
	Warnings      *prometheus.CounterVec
	ActiveGames   prometheus.Gauge
	GamesEvicted  prometheus.Counter
	ArchiveErrors prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RoundsStarted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geoguess_rounds_started_total",
			Help: "Total number of rounds started.",
		}, []string{"source"}),
		GuessesScored: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geoguess_guesses_scored_total",
			Help: "Total number of guesses scored.",
		}, []string{"difficulty"}),
		Points: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geoguess_points_awarded",
			Help:    "Points awarded per scored guess.",
			Buckets: prometheus.LinearBuckets(0, 500, 15),
		}, []string{"difficulty"}),
		DistanceKm: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geoguess_guess_distance_km",
			Help:    "Distance between guess and target in kilometres.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9),
		}),
		Warnings: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geoguess_precondition_warnings_total",
			Help: "Total number of operations rejected because the game was in the wrong state.",
		}, []string{"op"}),
		ActiveGames: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geoguess_active_games",
			Help: "Current number of games held in memory.",
		}),
		GamesEvicted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geoguess_games_evicted_total",
			Help: "Total number of idle games evicted.",
		}),
		ArchiveErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geoguess_archive_errors_total",
			Help: "Total number of scored rounds that could not be archived.",
		}),
	}
}
