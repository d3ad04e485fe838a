package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultPort = 9090

// NewHTTPServer creates an HTTP server that exposes Prometheus metrics at /metrics.
// Long director runs can be watched while they scrape.
func NewHTTPServer(address string, port int) *http.Server {
	if port == 0 {
		port = defaultPort
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
