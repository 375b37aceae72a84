package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fwojciec/linguacrawl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultStatusHead is how many upcoming URLs /status reports.
const DefaultStatusHead = 10

// StatusServer exposes read-only inspection of a running crawl.
type StatusServer struct {
	router   chi.Router
	frontier linguacrawl.Summarizer
	gatherer prometheus.Gatherer
	head     int
}

// StatusReport is the body of GET /status.
type StatusReport struct {
	Live      int            `json:"live"`
	Classes   map[string]int `json:"classes"`
	Processed int            `json:"processed"`
	Next      []string       `json:"next"`
}

// NewStatusServer creates a StatusServer for frontier. Each /status request
// costs one Summarize call, so it stays cheap on large crawls. Metrics are served
// from gatherer; a nil gatherer disables /metrics.
func NewStatusServer(frontier linguacrawl.Summarizer, gatherer prometheus.Gatherer) *StatusServer {
	s := &StatusServer{
		frontier: frontier,
		gatherer: gatherer,
		head:     DefaultStatusHead,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Get("/status", s.status)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *StatusServer) Handler() http.Handler {
	return s.router
}

func (s *StatusServer) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *StatusServer) status(w http.ResponseWriter, _ *http.Request) {
	sum := s.frontier.Summarize(s.head)
	report := StatusReport{
		Live:      sum.Live,
		Processed: sum.Processed,
		Classes: map[string]int{
			linguacrawl.ClassTarget.String():    sum.ByClass[linguacrawl.ClassTarget],
			linguacrawl.ClassUnknown.String():   sum.ByClass[linguacrawl.ClassUnknown],
			linguacrawl.ClassOffTarget.String(): sum.ByClass[linguacrawl.ClassOffTarget],
		},
		Next: make([]string, 0, len(sum.Next)),
	}
	for _, e := range sum.Next {
		report.Next = append(report.Next, e.Link.String())
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("status write failed", "err", err)
	}
}
