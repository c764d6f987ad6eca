package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsMade = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicost_predictions_total",
		Help: "Total number of predictions computed and stored.",
	})
	predictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicost_predictions_failed_total",
		Help: "Total number of prediction failures.",
	})
	retrainRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicost_retrain_runs_total",
		Help: "Total number of completed retraining runs.",
	})
	retrainFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medicost_retrain_failures_total",
		Help: "Total number of failed retraining runs.",
	})
	retrainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medicost_retrain_duration_seconds",
		Help:    "Duration of a full retraining run.",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})
)
