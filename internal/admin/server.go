package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"missionops-sim/internal/config"
	"missionops-sim/internal/logging"
	"missionops-sim/internal/mission"
	"missionops-sim/internal/sim"
)

// Controller is the subset of sim.Runner exposed over HTTP.
type Controller interface {
	Snapshot() sim.View
	Do(ctx context.Context, fn func(*mission.Machine)) error
	Choose(ctx context.Context, choiceID string) (mission.Result, error)
	Reset(ctx context.Context) error
}

type Server struct {
	Ctl Controller
	tpl *template.Template
	mux *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
}

func NewServer(ctl Controller) *Server {
	tpl := template.Must(template.New("index.html").Funcs(funcs).ParseFS(content, "templates/index.html"))
	s := &Server{Ctl: ctl, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /state", s.handleState)
	s.mux.HandleFunc("GET /scenario", s.handleScenario)
	s.mux.HandleFunc("POST /choice", s.handleChoice)
	s.mux.HandleFunc("POST /difficulty", s.handleDifficulty)
	s.mux.HandleFunc("POST /reset", s.handleReset)
}

// Handler exposes the routes for embedding and tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves on addr until ctx is done. ready, if set, receives the bound
// address once the listener is open.
func (s *Server) Start(ctx context.Context, addr string, ready func(string)) error {
	log := logging.FromContext(ctx)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("starting admin server", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr().String())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, s.Ctl.Snapshot()); err != nil {
		logging.FromContext(r.Context()).Warn("render admin page", "err", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Ctl.Snapshot())
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	act := s.Ctl.Snapshot().Active
	if act == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	if s.Ctl.Snapshot().Active == nil {
		writeError(w, http.StatusConflict, "no emergency in progress")
		return
	}
	res, err := s.Ctl.Choose(r.Context(), id)
	switch {
	case errors.Is(err, mission.ErrUnknownChoice):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case !res.Accepted:
		writeError(w, http.StatusConflict, "decision already made")
		return
	}
	if fromBrowser(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	d, err := config.ParseDifficulty(r.URL.Query().Get("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var ok bool
	if err := s.Ctl.Do(r.Context(), func(m *mission.Machine) { ok = m.SetDifficulty(d) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "difficulty can only change during planning")
		return
	}
	writeJSON(w, http.StatusOK, s.Ctl.Snapshot().Settings)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.Ctl.Reset(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if fromBrowser(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fromBrowser reports whether r came from the HTML control page.
func fromBrowser(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
