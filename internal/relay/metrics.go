package relay

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "authrelay"

// modeNone はフローが決まる前に終わったレスポンスのラベル値。
const modeNone = "none"

// Metrics はリレーのPrometheusメトリクス。
// テストごとに独立させるため、グローバルではなく専用のレジストリに登録する。
type Metrics struct {
	registry *prometheus.Registry
	// requests はモードとステータスコードごとのレスポンス数。
	requests *prometheus.CounterVec
	// upstreamDuration は上流呼び出しの所要時間。
	upstreamDuration *prometheus.HistogramVec
}

// NewMetrics は新しいレジストリにメトリクスを登録して返す。
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "relay",
				Name:      "requests_total",
				Help:      "Total number of relay responses by mode and status code",
			},
			[]string{"mode", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Duration of calls to the upstream auth API in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"mode"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler はメトリクスを公開するHTTPハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func (m *Metrics) observeResponse(mode string, status int) {
	m.requests.WithLabelValues(mode, strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeUpstream(mode Mode, d time.Duration) {
	m.upstreamDuration.WithLabelValues(string(mode)).Observe(d.Seconds())
}
