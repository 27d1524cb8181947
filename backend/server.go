// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ttbt-io/pitchbypitch/backend/archive"
	"github.com/ttbt-io/pitchbypitch/backend/game"
)

const (
	maxActionBody = 1 << 20
	maxSaveBody   = 16 << 20

	// Filtered result listings look at this many recent games.
	maxResultScan = 5000
)

// Options represent server options.
type Options struct {
	Addr     string
	Cert     *tls.Certificate
	Listener net.Listener
	DataDir  string
	Debug    bool
	Logger   zerolog.Logger

	// Storage holds save files. Saving is disabled without it.
	Storage *storage.Storage
	// Archive records finished games. Optional.
	Archive archive.Repository

	// JWTSecret turns on authentication for every route that changes state.
	JWTSecret      []byte
	AuthCookieName string

	// PublicURL is the base of replay links.
	PublicURL string
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server
	Sessions   *SessionManager
	archive    archive.Repository
	log        zerolog.Logger
}

// Shutdown stops the HTTP server and closes the archive.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []string
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("http: %v", err))
	}
	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("archive: %v", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %s", strings.Join(errs, ", "))
	}
	return nil
}

// StartServer builds the handler and serves it in the background.
func StartServer(opts Options) (*Server, error) {
	handler, sessions := NewServerHandler(opts)

	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if opts.Cert != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*opts.Cert},
		}
	}

	log := opts.Logger
	go func() {
		var err error
		switch {
		case opts.Listener != nil && opts.Cert != nil:
			log.Info().Str("addr", opts.Listener.Addr().String()).Msg("starting HTTPS server on provided listener")
			err = httpServer.ServeTLS(opts.Listener, "", "")
		case opts.Listener != nil:
			log.Info().Str("addr", opts.Listener.Addr().String()).Msg("starting HTTP server on provided listener")
			err = httpServer.Serve(opts.Listener)
		case opts.Cert != nil:
			log.Info().Str("addr", opts.Addr).Msg("starting HTTPS server")
			err = httpServer.ListenAndServeTLS("", "")
		default:
			log.Info().Str("addr", opts.Addr).Msg("starting HTTP server")
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()

	return &Server{
		httpServer: httpServer,
		Sessions:   sessions,
		archive:    opts.Archive,
		log:        log,
	}, nil
}

type apiHandler struct {
	sessions  *SessionManager
	saves     *SaveStore
	hubs      *HubManager
	publicURL string
	log       zerolog.Logger
}

// NewServerHandler wires the API routes.
func NewServerHandler(opts Options) (http.Handler, *SessionManager) {
	hubs := NewHubManager(opts.Logger)
	h := &apiHandler{
		sessions:  NewSessionManager(opts.Archive, hubs, opts.Logger),
		hubs:      hubs,
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
		log:       opts.Logger,
	}
	if opts.Storage != nil {
		h.saves = NewSaveStore(opts.DataDir, opts.Storage, opts.Logger)
	}
	authOn := len(opts.JWTSecret) > 0

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(opts.Logger))
	r.Use(securityMiddleware)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(jwtAuthMiddleware(opts.JWTSecret, opts.AuthCookieName, opts.Logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cacheControlMiddleware)

		r.Get("/games", h.handleListGames)
		r.Get("/games/{id}", h.handleGetGame)
		r.Get("/games/{id}/export", h.handleExport)
		r.Get("/games/{id}/replay", h.handleReplayLink)
		r.Get("/games/{id}/box", h.handleBoxScore)
		r.Get("/games/{id}/ws", h.handleWS)
		r.Get("/saves", h.handleListSaves)
		r.Get("/results", h.handleListResults)
		r.Get("/results/{id}", h.handleGetResult)
		r.Post("/replays", h.handleRunReplay)

		r.Group(func(r chi.Router) {
			r.Use(requireUser(authOn))
			r.Post("/games", h.handleCreateGame)
			r.Post("/games/import", h.handleImport)
			r.Post("/games/{id}/actions", h.handleAction)
			r.Post("/games/{id}/step", h.handleStep)
			r.Post("/games/{id}/save", h.handleSave)
			r.Delete("/games/{id}", h.handleDeleteGame)
			r.Post("/saves/{saveID}/load", h.handleLoadSave)
			r.Delete("/saves/{saveID}", h.handleDeleteSave)
		})
	})

	return r, h.sessions
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (h *apiHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	if !isValidUUID(id) {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return sess, true
}

type createGameRequest struct {
	Setup *game.Setup `json:"setup,omitempty"`
	Seed  string      `json:"seed,omitempty"`
}

func (h *apiHandler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	setup := game.DefaultSetup()
	if req.Setup != nil {
		setup = *req.Setup
	}
	sess, err := h.sessions.Create(setup, req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Info().Str("gameId", sess.ID).Str("user", maskUserID(getUserID(r))).Msg("game created")
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

type gameSummary struct {
	ID       string    `json:"id"`
	Teams    [2]string `json:"teams"`
	Score    [2]int    `json:"score"`
	Inning   int       `json:"inning"`
	Half     string    `json:"half"`
	Status   string    `json:"status"`
	Created  time.Time `json:"created"`
	PitchKey int       `json:"pitchKey"`
}

func (h *apiHandler) handleListGames(w http.ResponseWriter, r *http.Request) {
	out := []gameSummary{}
	for sess := range h.sessions.All() {
		v := sess.Snapshot()
		out = append(out, gameSummary{
			ID:       v.ID,
			Teams:    v.State.TeamNames,
			Score:    v.State.Score,
			Inning:   v.State.Inning,
			Half:     v.State.Half.String(),
			Status:   v.Status,
			Created:  sess.CreatedAt,
			PitchKey: v.State.PitchKey,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *apiHandler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (h *apiHandler) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.sessions.Remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// dispatchStatus maps a Dispatch error to an HTTP status.
func dispatchStatus(err error) int {
	var unhandled *game.UnhandledActionError
	switch {
	case errors.As(err, &unhandled),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, game.ErrInvalidHitType),
		errors.Is(err, game.ErrInvalidSetup):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *apiHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	action, err := ValidateAction(raw)
	if err != nil {
		// A finished game ignores actions it would not accept, known or not.
		var unhandled *game.UnhandledActionError
		if view := sess.Snapshot(); errors.As(err, &unhandled) && view.State.GameOver {
			writeJSON(w, http.StatusOK, view)
			return
		}
		writeError(w, dispatchStatus(err), err.Error())
		return
	}
	view, err := sess.Dispatch(action)
	if err != nil {
		status := dispatchStatus(err)
		if status == http.StatusInternalServerError {
			h.log.Error().Err(err).Str("gameId", sess.ID).Str("action", string(action.Type())).Msg("dispatch failed")
		}
		writeError(w, status, err.Error())
		return
	}
	h.sessions.Changed(r.Context(), sess, view)
	writeJSON(w, http.StatusOK, view)
}

type stepResponse struct {
	SessionView
	Result string `json:"result"`
}

func stepResultName(res game.StepResult) string {
	switch res {
	case game.StepManaged:
		return "managed"
	case game.StepAwaitingDecision:
		return StatusAwaiting
	case game.StepGameOver:
		return StatusFinal
	}
	return "pitched"
}

// parseStepCount reads ?n=; "all" plays to the end.
func parseStepCount(text string) (int, error) {
	switch text {
	case "":
		return DefaultStepBatch, nil
	case "all":
		return MaxGameSteps, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid step count %q", text)
	}
	return min(n, MaxStepBatch), nil
}

func (h *apiHandler) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	n, err := parseStepCount(r.URL.Query().Get("n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, res, err := sess.Step(n)
	if err != nil {
		h.log.Error().Err(err).Str("gameId", sess.ID).Msg("step failed")
		writeError(w, dispatchStatus(err), err.Error())
		return
	}
	h.sessions.Changed(r.Context(), sess, view)
	writeJSON(w, http.StatusOK, stepResponse{SessionView: view, Result: stepResultName(res)})
}

func (h *apiHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	data, err := ExportSave(sess.Export())
	if err != nil {
		h.log.Error().Err(err).Str("gameId", sess.ID).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "pitchbypitch-"+sess.ID+".json"))
	w.Write(data)
}

// importStatus maps an import failure category to an HTTP status.
func importStatus(category string) int {
	switch category {
	case ImportUnsupportedVersion:
		return http.StatusUnprocessableEntity
	case ImportSignatureMismatch:
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func writeImportError(w http.ResponseWriter, err error) {
	cat := ImportCategory(err)
	writeJSON(w, importStatus(cat), errorResponse{Error: err.Error(), Category: cat})
}

func (h *apiHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSaveBody))
	if err != nil {
		writeImportError(w, &ImportError{Category: ImportFailed, Err: err})
		return
	}
	p, err := ImportSave(data)
	if err != nil {
		h.log.Info().Str("category", ImportCategory(err)).Err(err).Msg("save rejected")
		writeImportError(w, err)
		return
	}
	sess := h.sessions.Restore(p)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (h *apiHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "saving is not configured")
		return
	}
	p, err := h.saves.Save(sess.Export())
	if err != nil {
		h.log.Error().Err(err).Str("gameId", sess.ID).Msg("save failed")
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	sess.setSaveID(p.SaveID)
	writeJSON(w, http.StatusOK, SummarizeSave(p))
}

func (h *apiHandler) handleListSaves(w http.ResponseWriter, r *http.Request) {
	out := []SaveSummary{}
	if h.saves != nil {
		for sum, err := range h.saves.List() {
			if err != nil {
				h.log.Warn().Err(err).Str("saveId", sum.ID).Msg("skipping unreadable save")
				continue
			}
			out = append(out, sum)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *apiHandler) handleLoadSave(w http.ResponseWriter, r *http.Request) {
	if h.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "saving is not configured")
		return
	}
	p, err := h.saves.Load(chi.URLParam(r, "saveID"))
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "save not found")
		return
	}
	if err != nil {
		writeImportError(w, err)
		return
	}
	sess := h.sessions.Restore(p)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (h *apiHandler) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if h.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "saving is not configured")
		return
	}
	if err := h.saves.Delete(chi.URLParam(r, "saveID")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type replayLinkResponse struct {
	Link string `json:"link"`
	Replay
}

func (h *apiHandler) handleReplayLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	rp, err := sess.Replay()
	if errors.Is(err, ErrNotReplayable) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	link, err := EncodeReplayLink(h.publicURL+"/replay", rp.Seed, rp.DecisionLog)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, replayLinkResponse{Link: link, Replay: rp})
}

type runReplayRequest struct {
	Link  string      `json:"link"`
	Setup *game.Setup `json:"setup,omitempty"`
}

type runReplayResponse struct {
	State game.GameState `json:"state"`
	Box   game.BoxScore  `json:"box"`
}

func (h *apiHandler) handleRunReplay(w http.ResponseWriter, r *http.Request) {
	var req runReplayRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rp, err := ParseReplayLink(req.Link)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	setup := game.DefaultSetup()
	if req.Setup != nil {
		setup = *req.Setup
	}
	final, err := RunReplay(setup, rp, MaxGameSteps, &h.log)
	if err != nil {
		writeError(w, dispatchStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runReplayResponse{State: final, Box: game.ComputeBoxScore(final)})
}

func (h *apiHandler) handleBoxScore(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, game.ComputeBoxScore(sess.Snapshot().State))
}

func (h *apiHandler) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ServeWS(h.hubs, sess, w, r)
}

func (h *apiHandler) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = min(v, 500)
		}
	}
	query := r.URL.Query().Get("q")
	fetch := limit
	if query != "" {
		fetch = maxResultScan
	}
	res, err := h.sessions.Results(r.Context(), fetch)
	if err != nil {
		h.log.Error().Err(err).Msg("list results")
		writeError(w, http.StatusInternalServerError, "could not list results")
		return
	}
	if query != "" {
		res = filterResults(res, query, limit)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *apiHandler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if h.sessions.archive == nil {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	res, err := h.sessions.archive.GetResult(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, archive.ErrResultNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func cacheControlMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Str("requestId", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
