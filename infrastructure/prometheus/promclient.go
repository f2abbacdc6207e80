package promclient

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var FramesReceivedCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gemini_frames_received_total",
		Help: "frames received over gemini websocket feeds",
	},
)

var DecodeErrorsCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gemini_decode_errors_total",
		Help: "inbound frames skipped because they could not be decoded",
	},
)

var BootstrapFramesCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gemini_bootstrap_frames_skipped_total",
		Help: "socket_sequence 0 frames skipped by convention",
	},
)

var OpenStreamsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "gemini_open_streams",
		Help: "websocket streams currently listening",
	},
)

func StartPromClientServer() {
	reg := prometheus.NewRegistry()
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	reg.MustRegister(FramesReceivedCounter)
	reg.MustRegister(DecodeErrorsCounter)
	reg.MustRegister(BootstrapFramesCounter)
	reg.MustRegister(OpenStreamsGauge)
	reg.MustRegister(collectors.NewGoCollector())

	http.Handle("/metrics", promHandler)
	log.Printf("prometheus server listening at :8080")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
