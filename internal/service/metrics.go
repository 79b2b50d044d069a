package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "program_builder",
		Name:      "saves_total",
		Help:      "Program saves by result.",
	}, []string{"result"})

	saveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "program_builder",
		Name:      "save_duration_seconds",
		Help:      "Time spent persisting a program, archive included.",
		Buckets:   prometheus.DefBuckets,
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "program_builder",
		Name:      "active_sessions",
		Help:      "Open program editing sessions.",
	})
)
