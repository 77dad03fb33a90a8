// Package server exposes the parser and query layer over HTTP JSON for the
// rendering and UI collaborators. The server owns a parse cache and,
// optionally, a snapshot store; the core packages stay free of any I/O.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/david-basis/archmodel/cache"
	"github.com/david-basis/archmodel/model"
	"github.com/david-basis/archmodel/store"
	"github.com/david-basis/archmodel/sysml"
	"github.com/david-basis/archmodel/view"
)

// Server handles the model service API.
type Server struct {
	store *store.Store
	cache *cache.ModelCache
	log   zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore attaches a snapshot store, enabling the /api/models endpoints.
func WithStore(s *store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithCache sets the parse cache. The default keeps 64 entries.
func WithCache(c *cache.ModelCache) Option {
	return func(srv *Server) { srv.cache = c }
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(srv *Server) { srv.log = log }
}

// New creates a server with the given options.
func New(opts ...Option) *Server {
	srv := &Server{
		cache: cache.NewModelCache(64),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.HandleFunc("POST /api/models", s.handleSaveModel)
	mux.HandleFunc("GET /api/models", s.handleListModels)
	mux.HandleFunc("GET /api/models/{id}", s.handleGetModel)
	mux.HandleFunc("GET /api/models/{id}/tree", s.handleGetTree)
	mux.HandleFunc("GET /api/models/{id}/diagram", s.handleGetDiagram)
	mux.HandleFunc("DELETE /api/models/{id}", s.handleDeleteModel)
	return s.logRequests(mux)
}

// logRequests wraps the mux with zerolog access logging.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// parseRequest is the body of POST /api/parse and /api/models.
type parseRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
}

// parseResponse bundles everything the UI needs to render one document.
type parseResponse struct {
	ID      string           `json:"id,omitempty"`
	Model   *model.Model     `json:"model"`
	Tree    []*view.TreeNode `json:"tree"`
	Diagram *view.Diagram    `json:"diagram"`
}

// parseErrorResponse carries the ParseError fields to the UI boundary.
type parseErrorResponse struct {
	Error    string `json:"error"`
	Line     int    `json:"line,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeParseError(w http.ResponseWriter, err error) {
	resp := parseErrorResponse{Error: err.Error()}
	var perr *sysml.ParseError
	if errors.As(err, &perr) {
		resp.Line = perr.Line
		resp.Expected = perr.WantKind.String()
		if perr.WantText != "" {
			resp.Expected += " " + perr.WantText
		}
		resp.Actual = perr.GotText
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, resp)
}

// parseSource parses through the cache.
func (s *Server) parseSource(src string) (*model.Model, error) {
	if m := s.cache.Get(src); m != nil {
		return m, nil
	}
	m, err := sysml.Parse(src)
	if err != nil {
		return nil, err
	}
	s.cache.Put(src, m)
	return m, nil
}

func (s *Server) readParseRequest(w http.ResponseWriter, r *http.Request) (*parseRequest, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, parseErrorResponse{Error: "read body: " + err.Error()})
		return nil, false
	}
	var req parseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, parseErrorResponse{Error: "decode request: " + err.Error()})
		return nil, false
	}
	return &req, true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readParseRequest(w, r)
	if !ok {
		return
	}
	m, err := s.parseSource(req.Source)
	if err != nil {
		s.writeParseError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, parseResponse{
		Model:   m,
		Tree:    view.Tree(m),
		Diagram: view.BuildDiagram(m),
	})
}

func (s *Server) handleSaveModel(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no store configured", http.StatusNotImplemented)
		return
	}
	req, ok := s.readParseRequest(w, r)
	if !ok {
		return
	}
	m, err := s.parseSource(req.Source)
	if err != nil {
		s.writeParseError(w, err)
		return
	}
	id, err := s.store.Save(req.Name, req.Source, m)
	if err != nil {
		s.log.Error().Err(err).Msg("save snapshot")
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, parseResponse{
		ID:      id,
		Model:   m,
		Tree:    view.Tree(m),
		Diagram: view.BuildDiagram(m),
	})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no store configured", http.StatusNotImplemented)
		return
	}
	snaps, err := s.store.List()
	if err != nil {
		s.log.Error().Err(err).Msg("list snapshots")
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, snaps)
}

// loadModel fetches a stored model or writes the error response.
func (s *Server) loadModel(w http.ResponseWriter, r *http.Request) (*model.Model, bool) {
	if s.store == nil {
		http.Error(w, "no store configured", http.StatusNotImplemented)
		return nil, false
	}
	_, m, err := s.store.Load(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return m, true
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadModel(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadModel(w, r)
	if !ok {
		return
	}
	tree := view.Tree(m)
	if tree == nil {
		tree = []*view.TreeNode{}
	}
	s.writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadModel(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, view.BuildDiagram(m))
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no store configured", http.StatusNotImplemented)
		return
	}
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
