package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Counter: общее количество HTTP запросов
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Histogram: время выполнения запросов
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// Counter: количество ошибок по хендлерам
	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	// Counter: сколько шаблонных задач создал сидер
	SeededTasks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_seeded_tasks_total",
			Help: "Template tasks created by the schedule seeder",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, SeededTasks)
}
