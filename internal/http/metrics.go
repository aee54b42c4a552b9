package http

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_http_requests_total",
		Help: "HTTP requests served, by method, path and status code.",
	}, []string{"method", "path", "status"})

	paymentsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_payments_recorded_total",
		Help: "Payment updates accepted through the dashboard.",
	})

	chargesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_charges_created_total",
		Help: "Charges created by month reconciliation.",
	})
)

func observeRequest(method, path string, status int) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
