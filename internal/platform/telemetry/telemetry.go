// Package telemetry provides in-process request metrics for the clinic API
// using only standard library constructs: counters, gauges, histograms, and a
// Prometheus text exposition endpoint.
package telemetry

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// defaultDurationBuckets are the histogram bucket boundaries (in seconds)
// used for HTTP request duration.
var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// histogram is a thread-safe histogram with configurable bucket boundaries.
// Bucket counts are non-cumulative in storage; cumulative counts are computed
// at export time.
type histogram struct {
	boundaries   []float64
	bucketCounts []int64
	count        int64
	sum          float64
	mu           sync.Mutex
}

func newHistogram(boundaries []float64) *histogram {
	return &histogram{
		boundaries:   boundaries,
		bucketCounts: make([]int64, len(boundaries)),
	}
}

// Observe records a single value.
func (h *histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	for i, b := range h.boundaries {
		if v <= b {
			h.bucketCounts[i]++
			return
		}
	}
	// Value exceeds all boundaries; counted in +Inf at export.
}

// Count returns the total number of observations.
func (h *histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Sum returns the total sum of all observations.
func (h *histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// cumulativeBuckets returns cumulative bucket counts for Prometheus export.
func (h *histogram) cumulativeBuckets() []int64 {
	h.mu.Lock()
	raw := make([]int64, len(h.bucketCounts))
	copy(raw, h.bucketCounts)
	h.mu.Unlock()

	cum := make([]int64, len(raw))
	var running int64
	for i, c := range raw {
		running += c
		cum[i] = running
	}
	return cum
}

// counterStore holds named counters keyed by label values.
type counterStore struct {
	mu    sync.RWMutex
	items map[string]*int64
}

func newCounterStore() *counterStore {
	return &counterStore{items: make(map[string]*int64)}
}

func (s *counterStore) inc(key string) {
	s.mu.RLock()
	p, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		atomic.AddInt64(p, 1)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.items[key]; ok {
		atomic.AddInt64(p, 1)
		return
	}
	v := int64(1)
	s.items[key] = &v
}

func (s *counterStore) get(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[key]
	if !ok {
		return 0
	}
	return atomic.LoadInt64(p)
}

func (s *counterStore) snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]int64, len(s.items))
	for k, p := range s.items {
		cp[k] = atomic.LoadInt64(p)
	}
	return cp
}

// Provider manages all observability state for the server.
type Provider struct {
	serviceName string

	activeRequests int64

	histMu           sync.RWMutex
	durationsByRoute map[string]*histogram

	requests   *counterStore
	operations *counterStore
}

// NewProvider creates and initialises the telemetry provider.
func NewProvider(serviceName string) *Provider {
	if serviceName == "" {
		serviceName = "clinic-server"
	}
	return &Provider{
		serviceName:      serviceName,
		durationsByRoute: make(map[string]*histogram),
		requests:         newCounterStore(),
		operations:       newCounterStore(),
	}
}

// OperationCounter increments the clinic_operation_count metric for a
// domain-level operation (e.g. "appointments", "create").
func (p *Provider) OperationCounter(resource, operation string) {
	p.operations.inc(resource + "|" + operation)
}

// GetOperationCount returns the current value of an operation counter.
func (p *Provider) GetOperationCount(resource, operation string) int64 {
	return p.operations.get(resource + "|" + operation)
}

// GetRequestCount returns the number of requests seen for a method/route/status
// combination.
func (p *Provider) GetRequestCount(method, route, status string) int64 {
	return p.requests.get(method + "|" + route + "|" + status)
}

// ActiveRequests returns the number of in-flight requests.
func (p *Provider) ActiveRequests() int64 {
	return atomic.LoadInt64(&p.activeRequests)
}

func (p *Provider) routeHistogram(route string) *histogram {
	p.histMu.RLock()
	h, ok := p.durationsByRoute[route]
	p.histMu.RUnlock()
	if ok {
		return h
	}
	p.histMu.Lock()
	defer p.histMu.Unlock()
	if h, ok = p.durationsByRoute[route]; !ok {
		h = newHistogram(defaultDurationBuckets)
		p.durationsByRoute[route] = h
	}
	return h
}

// MetricsMiddleware returns an Echo middleware that records HTTP server metrics.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&p.activeRequests, 1)
			start := time.Now()

			err := next(c)

			atomic.AddInt64(&p.activeRequests, -1)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := fmt.Sprintf("%d", c.Response().Status)

			p.requests.inc(c.Request().Method + "|" + route + "|" + status)
			p.routeHistogram(route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// PrometheusHandler returns an Echo handler that serves metrics in Prometheus
// text exposition format.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var b strings.Builder

		b.WriteString("# HELP http_server_active_requests Number of active HTTP requests.\n")
		b.WriteString("# TYPE http_server_active_requests gauge\n")
		fmt.Fprintf(&b, "http_server_active_requests %d\n\n", p.ActiveRequests())

		b.WriteString("# HELP http_server_requests_total Total HTTP requests by method, route and status.\n")
		b.WriteString("# TYPE http_server_requests_total counter\n")
		for key, val := range p.requests.snapshot() {
			parts := strings.SplitN(key, "|", 3)
			if len(parts) != 3 {
				continue
			}
			fmt.Fprintf(&b, "http_server_requests_total{method=%q,route=%q,status=%q} %d\n",
				parts[0], parts[1], parts[2], val)
		}
		b.WriteByte('\n')

		b.WriteString("# HELP http_server_request_duration_seconds Duration of HTTP requests in seconds.\n")
		b.WriteString("# TYPE http_server_request_duration_seconds histogram\n")
		p.histMu.RLock()
		routes := make(map[string]*histogram, len(p.durationsByRoute))
		for k, v := range p.durationsByRoute {
			routes[k] = v
		}
		p.histMu.RUnlock()
		for route, h := range routes {
			cum := h.cumulativeBuckets()
			for i, boundary := range defaultDurationBuckets {
				fmt.Fprintf(&b, "http_server_request_duration_seconds_bucket{route=%q,le=\"%g\"} %d\n",
					route, boundary, cum[i])
			}
			fmt.Fprintf(&b, "http_server_request_duration_seconds_bucket{route=%q,le=\"+Inf\"} %d\n", route, h.Count())
			fmt.Fprintf(&b, "http_server_request_duration_seconds_sum{route=%q} %g\n", route, h.Sum())
			fmt.Fprintf(&b, "http_server_request_duration_seconds_count{route=%q} %d\n", route, h.Count())
		}
		b.WriteByte('\n')

		b.WriteString("# HELP clinic_operation_count Total domain operations by resource and operation.\n")
		b.WriteString("# TYPE clinic_operation_count counter\n")
		for key, val := range p.operations.snapshot() {
			parts := strings.SplitN(key, "|", 2)
			if len(parts) != 2 {
				continue
			}
			fmt.Fprintf(&b, "clinic_operation_count{resource=%q,operation=%q} %d\n",
				parts[0], parts[1], val)
		}

		return c.String(http.StatusOK, b.String())
	}
}
