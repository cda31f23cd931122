package rest

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const probeTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Probe is one dependency checked by /ready and /health.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// PingProbe checks a dependency that can be pinged, such as the pgx pool.
func PingProbe(name string, p pinger) Probe {
	return Probe{Name: name, Check: p.Ping}
}

// HealthHandler serves the liveness, readiness and health endpoints.
type HealthHandler struct {
	version string
	probes  []Probe
}

func NewHealthHandler(version string, probes ...Probe) *HealthHandler {
	return &HealthHandler{version: version, probes: probes}
}

// HealthResponse is the body of every health endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready reports 503 while any probe fails, without component detail.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, ok := h.runProbes(r.Context())
	status, body := http.StatusOK, "ok"
	if !ok {
		status, body = http.StatusServiceUnavailable, "down"
	}
	writeJSON(w, status, HealthResponse{Status: body, Timestamp: time.Now()})
}

// Health reports per-component status with latency and the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.runProbes(r.Context())
	status, body := http.StatusOK, "ok"
	if !ok {
		status, body = http.StatusServiceUnavailable, "down"
	}
	writeJSON(w, status, HealthResponse{
		Status:     body,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

// runProbes checks every probe concurrently under a shared timeout.
func (h *HealthHandler) runProbes(ctx context.Context) (map[string]CompStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	results := make([]CompStatus, len(h.probes))
	var g errgroup.Group
	for i, p := range h.probes {
		g.Go(func() error {
			start := time.Now()
			if err := p.Check(ctx); err != nil {
				results[i] = CompStatus{Status: "down"}
				return nil
			}
			results[i] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
			return nil
		})
	}
	_ = g.Wait()

	components := make(map[string]CompStatus, len(h.probes))
	ok := true
	for i, p := range h.probes {
		components[p.Name] = results[i]
		if results[i].Status != "ok" {
			ok = false
		}
	}
	return components, ok
}
