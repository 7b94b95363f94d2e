package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHandler returns the http.Handler for the /metrics scrape
// endpoint. buildMeterProvider registers its exporter on the default
// Prometheus registerer, so the default handler picks up every instrument
// created from any Providers.Meter returned by Init.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
