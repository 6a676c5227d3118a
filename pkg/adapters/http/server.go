package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/internal/logging"
	render "github.com/aretw0/stm/internal/presentation/graph"
	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/graph"
	"github.com/aretw0/stm/pkg/ports"
	"github.com/aretw0/stm/pkg/session"
	"github.com/aretw0/stm/pkg/synth"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies, model uploads included.
const maxBodyBytes = 1 << 20

// Server exposes the model editing service over HTTP.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager
	Metrics *Metrics

	logger      *slog.Logger
	sessionOpts []session.Option
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics replaces the default collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithSessionOptions forwards options to the session manager, e.g. a
// distributed locker.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// New creates a server over store.
func New(store ports.ModelStore, opts ...Option) *Server {
	s := &Server{
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Metrics == nil {
		s.Metrics = NewMetrics()
	}
	sessionOpts := append([]session.Option{
		session.WithLogger(s.logger),
		session.WithChangeHook(s.publish),
	}, s.sessionOpts...)
	s.Manager = session.NewManager(store, sessionOpts...)
	return s
}

// NewHandler creates a new HTTP handler over store.
func NewHandler(store ports.ModelStore, opts ...Option) http.Handler {
	return New(store, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.Metrics.Middleware)

	r.Get("/health", s.health)
	r.Get("/info", s.info)
	r.Handle("/metrics", s.Metrics.Handler())

	r.Route("/models", func(r chi.Router) {
		r.Post("/", s.createModel)
		r.Get("/", s.listModels)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getModel)
			r.Delete("/", s.deleteModel)

			r.Post("/states", s.addState)
			r.Put("/states/{name}", s.renameState)
			r.Delete("/states/{name}", s.removeState)

			r.Post("/transitions", s.addTransition)
			r.Put("/transitions", s.updateTransition)
			r.Delete("/transitions", s.removeTransition)

			r.Put("/inputs/{name}", s.setInput)
			r.Delete("/inputs/{name}", s.removeInput)

			r.Get("/analysis", s.analyze)
			r.Get("/trace", s.trace)
			r.Post("/evaluate", s.evaluate)
			r.Post("/synthesize", s.synthesize)
			r.Post("/run", s.run)
			r.Get("/generator", s.generator)
			r.Get("/graph", s.graph)
			r.Get("/events", s.events)
		})
	})
	return enableCORS(r)
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

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "stm-http",
		"version": strings.TrimSpace(stm.Version),
	})
}

// pathParam returns a decoded URL parameter.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

// edit applies fn to the model in the URL and replies with the saved snapshot.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, status int, fn func(*stm.Editor) error) {
	id := chi.URLParam(r, "id")
	var snap *domain.Snapshot
	err := s.Manager.Edit(r.Context(), id, func(ed *stm.Editor) error {
		if err := fn(ed); err != nil {
			return err
		}
		snap = ed.Snapshot()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, snap)
}

// view runs fn on a read-only copy of the model in the URL.
func (s *Server) view(w http.ResponseWriter, r *http.Request, fn func(*stm.Editor) (any, error)) {
	id := chi.URLParam(r, "id")
	var resp any
	err := s.Manager.View(r.Context(), id, func(ed *stm.Editor) error {
		var err error
		resp, err = fn(ed)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateResponse is returned by POST /models.
type CreateResponse struct {
	ID string `json:"id"`
}

// createModel accepts an optional model document, JSON by default or YAML
// when the content type says so.
func (s *Server) createModel(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, &badRequest{err: err})
		return
	}

	snap := &domain.Snapshot{}
	if len(strings.TrimSpace(string(body))) > 0 {
		format := file.FormatJSON
		if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
			format = file.FormatYAML
		}
		snap, err = file.Decode(body, format)
		if err != nil {
			s.writeError(w, r, &badRequest{err: err})
			return
		}
	}

	id, err := s.Manager.Create(r.Context(), snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/models/"+id)
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": ids})
}

// getModel returns the snapshot, as YAML with ?format=yaml.
func (s *Server) getModel(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Manager.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "yaml" {
		data, err := file.Encode(snap, file.FormatYAML)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) deleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.Manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, http.StatusCreated, func(ed *stm.Editor) error {
		return ed.AddState(req.Name)
	})
}

func (s *Server) renameState(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := pathParam(r, "name")
	s.edit(w, r, http.StatusOK, func(ed *stm.Editor) error {
		return ed.RenameState(name, req.Name)
	})
}

func (s *Server) removeState(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	s.edit(w, r, http.StatusOK, func(ed *stm.Editor) error {
		return ed.RemoveState(name)
	})
}

// TransitionResponse reports how an add was applied.
type TransitionResponse struct {
	Outcome    string            `json:"outcome"`
	Transition domain.Transition `json:"transition"`
}

func (s *Server) addTransition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp TransitionResponse
	err := s.Manager.Edit(r.Context(), chi.URLParam(r, "id"), func(ed *stm.Editor) error {
		out, err := ed.AddTransition(req.Name, req.Condition, req.From, req.To)
		if err != nil {
			return err
		}
		resp.Outcome = out.String()
		resp.Transition, _ = ed.Transition(req.From, req.To)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if resp.Outcome == graph.Merged.String() {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) updateTransition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, http.StatusOK, func(ed *stm.Editor) error {
		name := req.Name
		if t, ok := ed.Transition(req.From, req.To); ok && name == "" {
			name = t.Name
		}
		return ed.UpdateTransition(name, req.Condition, req.From, req.To)
	})
}

func (s *Server) removeTransition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.edit(w, r, http.StatusOK, func(ed *stm.Editor) error {
		return ed.RemoveTransition(q.Get("src"), q.Get("dest"))
	})
}

func (s *Server) setInput(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := pathParam(r, "name")
	s.edit(w, r, http.StatusOK, func(ed *stm.Editor) error {
		return ed.UpdateInput(name, req.Value)
	})
}

func (s *Server) removeInput(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	s.edit(w, r, http.StatusOK, func(ed *stm.Editor) error {
		return ed.RemoveInput(name)
	})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	s.view(w, r, func(ed *stm.Editor) (any, error) {
		return ed.Analyze(start), nil
	})
}

// TraceResponse is returned by GET /models/{id}/trace.
type TraceResponse struct {
	Trace []string `json:"trace"`
}

func (s *Server) trace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	steps, err := strconv.Atoi(q.Get("steps"))
	if err != nil {
		s.writeError(w, r, &badRequest{err: err})
		return
	}
	s.view(w, r, func(ed *stm.Editor) (any, error) {
		trace, err := ed.Trace(q.Get("start"), steps)
		if err != nil {
			return nil, err
		}
		return TraceResponse{Trace: trace}, nil
	})
}

// EvaluateResponse is returned by POST /models/{id}/evaluate.
type EvaluateResponse struct {
	Result bool `json:"result"`
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	var req ConditionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.view(w, r, func(ed *stm.Editor) (any, error) {
		cond := req.Condition
		if req.From != "" {
			t, ok := ed.Transition(req.From, req.To)
			if !ok {
				return nil, domain.ErrTransitionNotFound
			}
			cond = t.Condition
		}
		ok, err := ed.Evaluate(cond)
		if err != nil {
			return nil, err
		}
		return EvaluateResponse{Result: ok}, nil
	})
}

// SynthesizeResponse lists the values written.
type SynthesizeResponse struct {
	Assignments []synth.Assignment `json:"assignments"`
}

func (s *Server) synthesize(w http.ResponseWriter, r *http.Request) {
	var req ConditionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp SynthesizeResponse
	err := s.Manager.Edit(r.Context(), chi.URLParam(r, "id"), func(ed *stm.Editor) error {
		var err error
		if req.From != "" {
			resp.Assignments, err = ed.SynthesizeTransition(req.From, req.To)
		} else {
			resp.Assignments, err = ed.Synthesize(req.Condition)
		}
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RunResponse is returned by POST /models/{id}/run.
type RunResponse struct {
	Path []string `json:"path"`
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.view(w, r, func(ed *stm.Editor) (any, error) {
		path, err := ed.Run(req.Start, req.MaxSteps)
		if err != nil {
			return nil, err
		}
		return RunResponse{Path: path}, nil
	})
}

func (s *Server) generator(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, func(ed *stm.Editor) (any, error) {
		return ed.GeneratorSnapshot(), nil
	})
}

// graph renders the model as Mermaid. ?start= marks the start state and
// the unreachable states; adding &steps= overlays a generated trace.
func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var out string
	err := s.Manager.View(r.Context(), chi.URLParam(r, "id"), func(ed *stm.Editor) error {
		overlay, err := buildOverlay(ed, q.Get("start"), q.Get("steps"))
		if err != nil {
			return err
		}
		out = render.GenerateMermaid(ed.Snapshot(), overlay)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func buildOverlay(ed *stm.Editor, start, steps string) (*render.GraphOverlay, error) {
	if start == "" {
		return nil, nil
	}
	overlay := &render.GraphOverlay{Start: start, Unreachable: ed.Analyze(start).Unreachable}
	if steps == "" {
		return overlay, nil
	}
	n, err := strconv.Atoi(steps)
	if err != nil {
		return nil, &badRequest{err: err}
	}
	// A dead end still yields the walk up to that state.
	trace, err := ed.Trace(start, n)
	if err != nil && !(errors.Is(err, domain.ErrDeadEnd) && len(trace) > 0) {
		return nil, err
	}
	overlay.VisitedNodes = trace
	overlay.CurrentNode = trace[len(trace)-1]
	return overlay, nil
}
