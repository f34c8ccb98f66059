package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dayplan/internal/ics"
	"dayplan/internal/interact"
	appLog "dayplan/internal/log"
	"dayplan/internal/model"
	"dayplan/internal/planner"
)

// Server exposes the planner as a JSON API. The pointer event source of a
// client reaches the gesture machine through the /api/gesture endpoints.
type Server struct {
	svc *planner.Service
	mux *http.ServeMux

	// Holiday feeds change rarely; cache the expanded list briefly so
	// calendar clients polling /api/holidays do not refetch every time.
	holidaysMu    sync.RWMutex
	holidaysCache *holidaysCache
}

type holidaysCache struct {
	resp      holidaysResponse
	updatedAt time.Time
}

const holidaysCacheTTL = 5 * time.Minute

func NewServer(svc *planner.Service) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/day", s.handleDay)
	s.mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	s.mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	s.mux.HandleFunc("GET /api/holidays", s.handleHolidays)

	s.mux.HandleFunc("GET /api/routines", s.handleRoutines)
	s.mux.HandleFunc("POST /api/routines", s.handleAddRoutine)
	s.mux.HandleFunc("PUT /api/routines/{id}", s.handleUpdateRoutine)
	s.mux.HandleFunc("DELETE /api/routines/{id}", s.handleDeleteRoutine)
	s.mux.HandleFunc("DELETE /api/routines/{id}/occurrences/{date}", s.handleDeleteOccurrence)

	s.mux.HandleFunc("PUT /api/meta/{date}", s.handleMeta)

	s.mux.HandleFunc("POST /api/gesture/create", s.handleGestureCreate)
	s.mux.HandleFunc("POST /api/gesture/resize", s.handleGestureResize)
	s.mux.HandleFunc("POST /api/gesture/drag", s.handleGestureDrag)
	s.mux.HandleFunc("POST /api/gesture/move", s.handleGestureMove)
	s.mux.HandleFunc("POST /api/gesture/up", s.handleGestureUp)
	s.mux.HandleFunc("POST /api/gesture/drop", s.handleGestureDrop)
	s.mux.HandleFunc("POST /api/gesture/cancel", s.handleGestureCancel)
	s.mux.HandleFunc("POST /api/edit", s.handleEdit)

	s.mux.HandleFunc("GET /calendar.ics", s.handleFeed)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func user(r *http.Request) string { return r.URL.Query().Get("user") }

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Day(r.Context(), user(r), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Calendar(r.Context(), user(r), r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(r.Context(), user(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type holidaysResponse struct {
	Holidays []ics.Holiday `json:"holidays"`
	Partial  bool          `json:"partial,omitempty"`
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	s.holidaysMu.RLock()
	hc := s.holidaysCache
	s.holidaysMu.RUnlock()
	if hc != nil && time.Since(hc.updatedAt) < holidaysCacheTTL {
		writeJSON(w, http.StatusOK, hc.resp)
		return
	}

	hs, err := s.svc.Holidays(r.Context())
	if err != nil {
		appLog.Error("api holidays: one or more feeds failed", err)
	}
	if hs == nil {
		hs = []ics.Holiday{}
	}
	resp := holidaysResponse{Holidays: hs, Partial: err != nil}

	// Partial results are served but not cached.
	if err == nil {
		s.holidaysMu.Lock()
		s.holidaysCache = &holidaysCache{resp: resp, updatedAt: time.Now()}
		s.holidaysMu.Unlock()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoutines(w http.ResponseWriter, r *http.Request) {
	rs, err := s.svc.Routines(r.Context(), user(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleAddRoutine(w http.ResponseWriter, r *http.Request) {
	var in model.Routine
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := s.svc.AddRoutine(r.Context(), user(r), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleUpdateRoutine(w http.ResponseWriter, r *http.Request) {
	var in model.Routine
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = r.PathValue("id")
	out, err := s.svc.UpdateRoutine(r.Context(), user(r), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRoutine(r.Context(), user(r), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteOccurrence(r.Context(), user(r), r.PathValue("id"), r.PathValue("date")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	var p planner.MetaPatch
	if !decodeBody(w, r, &p) {
		return
	}
	m, err := s.svc.SetDayMeta(r.Context(), user(r), r.PathValue("date"), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// gestureRequest carries every field a gesture endpoint may read.
type gestureRequest struct {
	ID     string     `json:"id"`
	Date   string     `json:"date"`
	Column model.Kind `json:"column"`
	Offset float64    `json:"offset"`
}

type gestureResponse struct {
	planner.Result
	Phase string `json:"phase"`
}

func (s *Server) writeGesture(w http.ResponseWriter, r *http.Request, res planner.Result, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gestureResponse{Result: res, Phase: s.svc.Phase(user(r)).String()})
}

func (s *Server) handleGestureCreate(w http.ResponseWriter, r *http.Request) {
	var in gestureRequest
	if !decodeBody(w, r, &in) {
		return
	}
	err := s.svc.BeginCreate(user(r), in.Date, in.Column, in.Offset)
	s.writeGesture(w, r, planner.Result{}, err)
}

func (s *Server) handleGestureResize(w http.ResponseWriter, r *http.Request) {
	var in gestureRequest
	if !decodeBody(w, r, &in) {
		return
	}
	err := s.svc.BeginResize(r.Context(), user(r), in.ID, in.Offset)
	s.writeGesture(w, r, planner.Result{}, err)
}

func (s *Server) handleGestureDrag(w http.ResponseWriter, r *http.Request) {
	var in gestureRequest
	if !decodeBody(w, r, &in) {
		return
	}
	err := s.svc.BeginDrag(r.Context(), user(r), in.ID)
	s.writeGesture(w, r, planner.Result{}, err)
}

func (s *Server) handleGestureMove(w http.ResponseWriter, r *http.Request) {
	var in gestureRequest
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.Move(r.Context(), user(r), in.Offset)
	s.writeGesture(w, r, res, err)
}

func (s *Server) handleGestureUp(w http.ResponseWriter, r *http.Request) {
	var in gestureRequest
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.Up(r.Context(), user(r), in.Offset)
	s.writeGesture(w, r, res, err)
}

func (s *Server) handleGestureDrop(w http.ResponseWriter, r *http.Request) {
	var in gestureRequest
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.Drop(r.Context(), user(r), in.Date, in.Column, in.Offset)
	s.writeGesture(w, r, res, err)
}

func (s *Server) handleGestureCancel(w http.ResponseWriter, r *http.Request) {
	s.svc.Cancel(user(r))
	s.writeGesture(w, r, planner.Result{}, nil)
}

type editRequest struct {
	ID string `json:"id"`
	interact.EditResult
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var in editRequest
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.svc.ApplyEdit(r.Context(), user(r), in.ID, in.EditResult)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleFeed publishes the plan for calendar subscriptions.
//
// GET /calendar.ics?user=&actual=1
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	actual := parseIntDefault(r.URL.Query().Get("actual"), 0) == 1
	body, err := s.svc.Feed(r.Context(), user(r), actual)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalid), errors.Is(err, interact.ErrBadColumn):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interact.ErrBusy), errors.Is(err, interact.ErrNoGesture),
		errors.Is(err, interact.ErrNotResizable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		appLog.Error("api request failed", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		appLog.Debug("http request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "took", time.Since(start).String())
	})
}
