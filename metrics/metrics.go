package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionsActive tracks live PTY sessions
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tintedterminal_sessions_active",
		Help: "Current live terminal sessions",
	})

	// SessionsCreated counts sessions by the preset they started with
	SessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tintedterminal_sessions_created_total",
		Help: "Total sessions created by starting preset",
	}, []string{"preset"})

	// ClientsConnected tracks attached WebSocket clients
	ClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tintedterminal_ws_clients",
		Help: "Current attached WebSocket clients",
	})

	// PresetSelections counts preset changes on live sessions and explicit "use" calls
	PresetSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tintedterminal_preset_selections_total",
		Help: "Total preset selections by index",
	}, []string{"preset"})
)

// PresetLabel renders a palette index as a label value.
func PresetLabel(index int) string {
	return strconv.Itoa(index)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
