package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/logging"
	"github.com/aretw0/automata/internal/presentation/graph"
	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 4 << 20

// Engine is the subset of automata.Engine served over HTTP.
type Engine interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*domain.Automaton, error)
	Put(ctx context.Context, name string, a *domain.Automaton) error
	Delete(ctx context.Context, name string) error
	Evaluate(a *domain.Automaton, input string) (automata.Result, error)
	Batch(ctx context.Context, name string, expectations []batch.Expectation) (batch.Report, error)
}

// Server holds the HTTP handlers.
type Server struct {
	Engine       Engine
	Logger       *slog.Logger
	Metrics      http.Handler
	OnParseError func(error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithParseErrorHook is called with every rejected automaton definition.
func WithParseErrorHook(fn func(error)) Option {
	return func(s *Server) {
		s.OnParseError = fn
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/automata", func(r chi.Router) {
		r.Get("/", s.ListAutomata)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetAutomaton)
			r.Put("/", s.PutAutomaton)
			r.Delete("/", s.DeleteAutomaton)
			r.Post("/accepts", s.Accepts)
			r.Post("/batch", s.Batch)
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error  string   `json:"error"`
	State  string   `json:"state,omitempty"`
	Symbol string   `json:"symbol,omitempty"`
	Trace  []string `json:"trace,omitempty"`
}

// AutomatonSummary describes a stored automaton.
type AutomatonSummary struct {
	Name     string   `json:"name"`
	States   []string `json:"states"`
	Alphabet []string `json:"alphabet"`
	Start    string   `json:"start"`
	Accepts  []string `json:"accepts"`
	Total    bool     `json:"total"`
	// Transitions maps state to symbol to target.
	Transitions map[string]map[string]string `json:"transitions"`
}

// AcceptsRequest is the body of POST /automata/{name}/accepts.
type AcceptsRequest struct {
	Input string `json:"input"`
}

// BatchCase is one line of a batch request. Expected is "True" or "False".
type BatchCase struct {
	Expected string `json:"expected"`
	Input    string `json:"input"`
}

// BatchRequest is the body of POST /automata/{name}/batch.
type BatchRequest struct {
	Cases []BatchCase `json:"cases"`
}

// BatchCaseResult is one case of a batch reply.
type BatchCaseResult struct {
	Index    int    `json:"index"`
	Input    string `json:"input"`
	Expected bool   `json:"expected"`
	Accepted bool   `json:"accepted"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

// BatchResponse is the reply of POST /automata/{name}/batch.
type BatchResponse struct {
	Total    int               `json:"total"`
	Accepted int               `json:"accepted"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Errored  int               `json:"errored"`
	Cases    []BatchCaseResult `json:"cases"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "automata-http",
		"version": strings.TrimSpace(automata.Version),
	})
}

// ListAutomata handles the GET /automata request.
func (s *Server) ListAutomata(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"automata": names})
}

// PutAutomaton handles the PUT /automata/{name} request.
// The body is YAML when Content-Type mentions yaml, tabular text otherwise.
func (s *Server) PutAutomaton(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
		return
	}

	a, err := decodeDefinition(r.Header.Get("Content-Type"), body)
	if err != nil {
		s.Logger.Warn("PutAutomaton: Invalid definition", "name", name, "error", err)
		if s.OnParseError != nil {
			s.OnParseError(err)
		}
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := s.Engine.Put(r.Context(), name, a); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(name, a))
}

func decodeDefinition(contentType string, body []byte) (*domain.Automaton, error) {
	if !strings.Contains(strings.ToLower(contentType), "yaml") {
		return format.Parse(body)
	}
	all, err := format.UnmarshalYAML(body)
	if err != nil {
		return nil, err
	}
	if len(all) != 1 {
		return nil, fmt.Errorf("%w: got %d yaml documents", format.ErrBlockCount, len(all))
	}
	return all[0], nil
}

// GetAutomaton handles the GET /automata/{name} request.
// Query: format=json|tabular|pretty|yaml|mermaid, input (mermaid trace overlay).
func (s *Server) GetAutomaton(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	a, err := s.Engine.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch f := r.URL.Query().Get("format"); f {
	case "", "json":
		s.writeJSON(w, http.StatusOK, summarize(name, a))
	case "mermaid":
		var overlay *graph.TraceOverlay
		if r.URL.Query().Has("input") {
			path, err := a.Trace(r.URL.Query().Get("input"))
			overlay = &graph.TraceOverlay{Path: path, Failed: err != nil}
		}
		s.writeText(w, "text/plain; charset=utf-8", graph.GenerateMermaid(a, overlay))
	default:
		parsed, err := format.ParseFormat(f)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		var sb strings.Builder
		if err := format.Encode(&sb, parsed, a); err != nil {
			s.writeError(w, err)
			return
		}
		contentType := "text/plain; charset=utf-8"
		if parsed == format.FormatYAML {
			contentType = "application/yaml"
		}
		s.writeText(w, contentType, sb.String())
	}
}

// DeleteAutomaton handles the DELETE /automata/{name} request.
func (s *Server) DeleteAutomaton(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Accepts handles the POST /automata/{name}/accepts request.
func (s *Server) Accepts(w http.ResponseWriter, r *http.Request) {
	var body AcceptsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		s.Logger.Warn("Accepts: Invalid request body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	a, err := s.Engine.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.Engine.Evaluate(a, body.Input)
	if err != nil {
		var undefined *domain.UndefinedTransitionError
		if errors.As(err, &undefined) {
			s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  err.Error(),
				State:  undefined.State,
				Symbol: undefined.Symbol.String(),
				Trace:  res.Trace,
			})
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Batch handles the POST /automata/{name}/batch request.
func (s *Server) Batch(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		s.Logger.Warn("Batch: Invalid request body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	expectations := make([]batch.Expectation, len(body.Cases))
	for i, c := range body.Cases {
		expected, err := batch.ParseResult(c.Expected)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("case %d: %v", i, err)})
			return
		}
		expectations[i] = batch.Expectation{Line: i + 1, Expected: expected, Input: c.Input}
	}

	report, err := s.Engine.Batch(r.Context(), chi.URLParam(r, "name"), expectations)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := BatchResponse{
		Total:    report.Total,
		Accepted: report.Accepted,
		Passed:   report.Passed,
		Failed:   report.Failed,
		Errored:  report.Errored,
		Cases:    make([]BatchCaseResult, len(report.Cases)),
	}
	for i, c := range report.Cases {
		resp.Cases[i] = BatchCaseResult{
			Index:    c.Index,
			Input:    c.Input,
			Expected: c.Expected,
			Accepted: c.Accepted,
			Outcome:  c.Outcome(),
		}
		if c.Err != nil {
			resp.Cases[i].Error = c.Err.Error()
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func summarize(name string, a *domain.Automaton) AutomatonSummary {
	alphabet := make([]string, 0, len(a.Alphabet()))
	for _, sym := range a.Alphabet() {
		alphabet = append(alphabet, sym.String())
	}
	accepts := a.AcceptLabels()
	if accepts == nil {
		accepts = []string{}
	}
	transitions := make(map[string]map[string]string, len(a.States()))
	for _, st := range a.States() {
		row := make(map[string]string, st.Len())
		for _, t := range format.OrderedTransitions(a, st) {
			row[t.Symbol.String()] = t.To
		}
		transitions[st.Label()] = row
	}
	return AutomatonSummary{
		Name:        name,
		States:      a.StateLabels(),
		Alphabet:    alphabet,
		Start:       a.Start(),
		Accepts:     accepts,
		Total:       a.IsTotal(),
		Transitions: transitions,
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAutomatonNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, format.ErrNotTabular):
		status = http.StatusBadRequest
	default:
		s.Logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		s.Logger.Error("Response write failed", "error", err)
	}
}
