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
	"errors"
	"fmt"
	"iter"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ttbt-io/pitchbypitch/backend/archive"
	"github.com/ttbt-io/pitchbypitch/backend/game"
	"github.com/ttbt-io/pitchbypitch/backend/rng"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotReplayable is returned for sessions whose history can't be
	// rebuilt from seed and decision log alone.
	ErrNotReplayable = errors.New("session is not replayable")
)

// SessionView is the read-only picture of a session the API hands out.
type SessionView struct {
	ID          string         `json:"id"`
	Seed        string         `json:"seed"`
	Status      string         `json:"status"`
	ManagerMode bool           `json:"managerMode"`
	ManagedSide int            `json:"managedSide"`
	Replayable  bool           `json:"replayable"`
	SaveID      string         `json:"saveId,omitempty"`
	State       game.GameState `json:"state"`
}

// Session is one game in progress. Its methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	setup      game.Setup
	gen        *rng.Generator
	driver     *game.Driver
	replayable bool
	archived   bool
	saveID     string
}

func newSession(id string, setup game.Setup, gen *rng.Generator, state game.GameState, logger *zerolog.Logger) *Session {
	r := game.NewReducer(gen, game.Options{Logger: logger, Seed: gen.Seed(), SaveID: id})
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		setup:      setup,
		gen:        gen,
		driver:     game.NewDriver(r, state, setup.ManagerMode, setup.ManagedSide, nil),
		replayable: true,
	}
}

// NewSession starts a game from setup. The managed side's decisions wait
// for Dispatch; the AI handles the rest.
func NewSession(setup game.Setup, seed uint32, logger *zerolog.Logger) (*Session, error) {
	setup = setup.Normalize()
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	state := game.ApplySetup(game.NewState([2]string{}), setup)
	return newSession(uuid.NewString(), setup, rng.New(seed), state, logger), nil
}

// RestoreSession resumes an imported save with the generator where it was.
func RestoreSession(p SavePayload, logger *zerolog.Logger) *Session {
	gen := rng.New(p.Seed)
	gen.Restore(p.RNGState)
	s := newSession(uuid.NewString(), p.Setup, gen, p.State, logger)
	s.saveID = p.SaveID
	s.driver.Reducer.SetSaveID(p.SaveID)
	// The save doesn't say how the game got here.
	s.replayable = false
	return s
}

func (s *Session) statusLocked() string {
	st := s.driver.State
	switch {
	case st.GameOver:
		return StatusFinal
	case st.PendingDecision != nil && s.setup.ManagerMode && st.PendingDecision.Side(st) == s.setup.ManagedSide:
		return StatusAwaiting
	}
	return StatusPlaying
}

func (s *Session) viewLocked() SessionView {
	return SessionView{
		ID:          s.ID,
		Seed:        rng.FormatSeed(s.gen.Seed()),
		Status:      s.statusLocked(),
		ManagerMode: s.setup.ManagerMode,
		ManagedSide: s.setup.ManagedSide,
		Replayable:  s.replayable,
		SaveID:      s.saveID,
		State:       s.driver.State.Clone(),
	}
}

// Snapshot returns the current view.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Setup returns the normalized setup the session was started with.
func (s *Session) Setup() game.Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setup
}

// Dispatch applies one action from outside the driver. An action that
// changes the game without adding to the decision log makes the session
// unreplayable.
func (s *Session) Dispatch(a game.Action) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.driver.State
	if err := s.driver.Dispatch(a); err != nil {
		return s.viewLocked(), err
	}
	after := s.driver.State
	if len(after.DecisionLog) <= len(before.DecisionLog) && !reflect.DeepEqual(before, after) {
		s.replayable = false
	}
	return s.viewLocked(), nil
}

// Step advances the game up to n driver steps, stopping early when the game
// ends or a decision is waiting on the managed side.
func (s *Session) Step(n int) (SessionView, game.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := game.StepPitched
	for range n {
		var err error
		res, err = s.driver.Step()
		if err != nil {
			return s.viewLocked(), res, err
		}
		if res == game.StepGameOver || res == game.StepAwaitingDecision {
			break
		}
	}
	if s.driver.State.GameOver {
		res = game.StepGameOver
	}
	return s.viewLocked(), res, nil
}

// Export captures the session as a save payload.
func (s *Session) Export() SavePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportLocked()
}

func (s *Session) exportLocked() SavePayload {
	id := s.saveID
	if id == "" {
		id = s.ID
	}
	return SavePayload{
		SaveID:   id,
		SavedAt:  time.Now().UnixMilli(),
		Seed:     s.gen.Seed(),
		RNGState: s.gen.State(),
		Setup:    s.setup,
		State:    s.driver.State.Clone(),
	}
}

func (s *Session) setSaveID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveID = id
	s.driver.Reducer.SetSaveID(id)
}

// ReplayLink returns a link that plays this game again from the first pitch.
func (s *Session) ReplayLink(base string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.replayable {
		return "", ErrNotReplayable
	}
	return EncodeReplayLink(base, s.gen.Seed(), s.driver.State.DecisionLog)
}

// Replay returns the seed and decision log of a replayable session.
func (s *Session) Replay() (Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.replayable {
		return Replay{}, ErrNotReplayable
	}
	return Replay{Seed: s.gen.Seed(), DecisionLog: append([]string{}, s.driver.State.DecisionLog...)}, nil
}

// finishOnce reports a finished game's result the first time it is asked.
func (s *Session) finishOnce() (archive.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.driver.State
	if !st.GameOver || s.archived {
		return archive.Result{}, false
	}
	s.archived = true
	return archive.Result{
		GameID:      s.ID,
		Seed:        s.gen.Seed(),
		Teams:       st.TeamNames,
		Score:       st.Score,
		Innings:     st.Inning,
		DecisionLog: append([]string{}, st.DecisionLog...),
		FinishedAt:  time.Now().UTC(),
	}, true
}

// SessionManager holds the live sessions and tells spectators and the
// results archive about changes.
type SessionManager struct {
	sessions sync.Map // id -> *Session
	archive  archive.Repository
	hubs     *HubManager
	log      zerolog.Logger
}

// NewSessionManager returns a manager. repo and hubs may be nil.
func NewSessionManager(repo archive.Repository, hubs *HubManager, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		archive: repo,
		hubs:    hubs,
		log:     logger.With().Str("component", "sessions").Logger(),
	}
}

// Create starts a session. Blank or unparseable seed text picks a random seed.
func (sm *SessionManager) Create(setup game.Setup, seedText string) (*Session, error) {
	seed := rng.SeedFromText(seedText)
	sess, err := NewSession(setup, seed, &sm.log)
	if err != nil {
		return nil, err
	}
	sm.sessions.Store(sess.ID, sess)
	sm.log.Info().Str("gameId", sess.ID).Str("seed", rng.FormatSeed(seed)).Msg("session created")
	return sess, nil
}

// Restore starts a session from an imported save.
func (sm *SessionManager) Restore(p SavePayload) *Session {
	sess := RestoreSession(p, &sm.log)
	sm.sessions.Store(sess.ID, sess)
	sm.log.Info().Str("gameId", sess.ID).Str("saveId", p.SaveID).Msg("session restored")
	return sess
}

func (sm *SessionManager) Get(id string) (*Session, error) {
	v, ok := sm.sessions.Load(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Session), nil
}

func (sm *SessionManager) Remove(id string) {
	sm.sessions.Delete(id)
}

// All yields every live session.
func (sm *SessionManager) All() iter.Seq[*Session] {
	return func(yield func(*Session) bool) {
		sm.sessions.Range(func(_, v any) bool {
			return yield(v.(*Session))
		})
	}
}

// Changed publishes a session's new state and archives it once it is final.
func (sm *SessionManager) Changed(ctx context.Context, sess *Session, view SessionView) {
	if sm.hubs != nil {
		sm.hubs.Broadcast(sess.ID, stateMessage(view))
	}
	if sm.archive == nil {
		return
	}
	res, ok := sess.finishOnce()
	if !ok {
		return
	}
	if err := sm.archive.SaveResult(ctx, res); err != nil && !errors.Is(err, archive.ErrResultExists) {
		sm.log.Error().Err(err).Str("gameId", sess.ID).Msg("archive result")
		return
	}
	sm.log.Info().Str("gameId", sess.ID).Ints("score", res.Score[:]).Msg("game archived")
}

// Results lists archived games, newest first.
func (sm *SessionManager) Results(ctx context.Context, limit int) ([]archive.Result, error) {
	if sm.archive == nil {
		return []archive.Result{}, nil
	}
	res, err := sm.archive.ListResults(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return res, nil
}
