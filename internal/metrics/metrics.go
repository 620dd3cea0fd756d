// internal/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Discard reasons.
const (
	ReasonMalformed = "malformed"
	ReasonUnknown   = "unknown_command"
)

// Metrics is the bridge's instrumentation. A nil *Metrics is valid and
// records nothing, so components can run uninstrumented in tests.
type Metrics struct {
	BytesReceived  *prometheus.CounterVec
	LinesParsed    *prometheus.CounterVec
	LinesDiscarded *prometheus.CounterVec
	CommandsSent   *prometheus.CounterVec
	Polls          *prometheus.CounterVec
	FeedbackMatch  *prometheus.GaugeVec
	ConnectionUp   *prometheus.GaugeVec
	ChunkDuration  prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		BytesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scb_bytes_received_total",
			Help: "Bytes received from the screen controller.",
		}, []string{"device"}),
		LinesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scb_lines_parsed_total",
			Help: "Response lines applied to the state cache.",
		}, []string{"device"}),
		LinesDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scb_lines_discarded_total",
			Help: "Response lines discarded without a state change.",
		}, []string{"device", "reason"}),
		CommandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scb_commands_sent_total",
			Help: "Outbound writes by kind (poll, get, set).",
		}, []string{"device", "kind"}),
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scb_polls_total",
			Help: "Poll cycles by result.",
		}, []string{"device", "result"}),
		FeedbackMatch: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scb_feedback_match",
			Help: "1 while a configured feedback matches, else 0.",
		}, []string{"device", "feedback"}),
		ConnectionUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scb_connection_up",
			Help: "1 while the device connection is established.",
		}, []string{"device"}),
		ChunkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scb_chunk_processing_seconds",
			Help:    "Time to frame, parse, project and evaluate one inbound chunk.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.BytesReceived,
		m.LinesParsed,
		m.LinesDiscarded,
		m.CommandsSent,
		m.Polls,
		m.FeedbackMatch,
		m.ConnectionUp,
		m.ChunkDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Received(device string, n int) {
	if m == nil {
		return
	}
	m.BytesReceived.WithLabelValues(device).Add(float64(n))
}

func (m *Metrics) Parsed(device string) {
	if m == nil {
		return
	}
	m.LinesParsed.WithLabelValues(device).Inc()
}

func (m *Metrics) Discarded(device, reason string) {
	if m == nil {
		return
	}
	m.LinesDiscarded.WithLabelValues(device, reason).Inc()
}

func (m *Metrics) Sent(device, kind string) {
	if m == nil {
		return
	}
	m.CommandsSent.WithLabelValues(device, kind).Inc()
}

func (m *Metrics) Polled(device string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Polls.WithLabelValues(device, result).Inc()
}

func (m *Metrics) Feedback(device, id string, match bool) {
	if m == nil {
		return
	}
	v := 0.0
	if match {
		v = 1
	}
	m.FeedbackMatch.WithLabelValues(device, id).Set(v)
}

func (m *Metrics) Connection(device string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.ConnectionUp.WithLabelValues(device).Set(v)
}

func (m *Metrics) ObserveChunk(d time.Duration) {
	if m == nil {
		return
	}
	m.ChunkDuration.Observe(d.Seconds())
}

// Serve exposes /metrics and /health on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, log logrus.FieldLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
