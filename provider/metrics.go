package provider

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var callsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "walletd_provider_calls_total",
	Help: "Provider method calls by method and outcome.",
}, []string{"method", "outcome"})

func countCallSuccess(method string) {
	callsCounter.WithLabelValues(method, "success").Inc()
}

func countCallError(method string, code int) {
	callsCounter.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func countCallProxied(method string) {
	callsCounter.WithLabelValues(method, "proxied").Inc()
}
