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

package game

import (
	"fmt"

	"github.com/rs/zerolog"
)

// UnhandledActionError is returned when no handler group claims an action.
// It always indicates a routing bug in the caller.
type UnhandledActionError struct {
	Type ActionType
}

func (e *UnhandledActionError) Error() string {
	return fmt.Sprintf("unhandled action type: %q", e.Type)
}

// handlerGroup either claims an action and returns the next state, or
// declines with handled == false before touching the state.
type handlerGroup func(r *Reducer, s GameState, a Action) (next GameState, handled bool, err error)

// Options configures a Reducer.
type Options struct {
	// Logger defaults to a disabled logger.
	Logger    *zerolog.Logger
	Announcer Announcer

	// CheckInvariants overrides the build default when set.
	CheckInvariants *bool

	// Seed and SaveID are attached to invariant reports.
	Seed   uint32
	SaveID string
}

// Reducer is the game's transition function bound to one generator.
type Reducer struct {
	rng             Source
	log             zerolog.Logger
	announcer       Announcer
	checkInvariants bool
	seed            uint32
	saveID          string
	groups          []handlerGroup
}

// NewReducer returns a Reducer drawing from src.
func NewReducer(src Source, opts Options) *Reducer {
	check := invariantsByDefault
	if opts.CheckInvariants != nil {
		check = *opts.CheckInvariants
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Reducer{
		rng:             src,
		log:             logger,
		announcer:       opts.Announcer,
		checkInvariants: check,
		seed:            opts.Seed,
		saveID:          opts.SaveID,
		groups: []handlerGroup{
			simulationHandlers,
			lifecycleHandlers,
			decisionHandlers,
			setupHandlers,
		},
	}
}

// Source returns the generator the Reducer draws from.
func (r *Reducer) Source() Source {
	return r.rng
}

// SetSaveID changes the save id attached to invariant reports.
func (r *Reducer) SetSaveID(id string) {
	r.saveID = id
}

// allowedAfterGameOver lists the only actions that do anything once the
// game has ended.
func allowedAfterGameOver(t ActionType) bool {
	switch t {
	case ActionReset, ActionRestoreGame, ActionSetTeams, ActionNextInning:
		return true
	}
	return false
}

// Dispatch applies one action. On error the returned state is the input state.
func (r *Reducer) Dispatch(state GameState, action Action) (GameState, error) {
	if action == nil {
		return state, &UnhandledActionError{}
	}
	if state.GameOver && !allowedAfterGameOver(action.Type()) {
		return state, nil
	}
	work := state.Clone()
	for _, group := range r.groups {
		next, handled, err := group(r, work, action)
		if !handled {
			continue
		}
		if err != nil {
			return state, err
		}
		if r.checkInvariants {
			r.reportViolations(next)
		}
		return next, nil
	}
	return state, &UnhandledActionError{Type: action.Type()}
}

func (r *Reducer) announce(msg string) {
	if r.announcer != nil {
		r.announcer.Announce(msg)
	}
}

// beginPitch advances the pitch key and consumes the one-pitch modifier.
func beginPitch(s *GameState) OnePitchModifier {
	s.PitchKey++
	m := s.OnePitchModifier
	s.OnePitchModifier = ModifierNone
	return m
}

// resolveDecision records the action that resolves the pending decision, if
// there is one, and clears it.
func resolveDecision(s *GameState, a Action) {
	if s.PendingDecision == nil {
		return
	}
	if entry, ok := EncodeDecision(s.PitchKey, a); ok {
		s.DecisionLog = append(s.DecisionLog, entry)
	}
	s.PendingDecision = nil
}

func strategyOr(s *GameState, st Strategy) Strategy {
	if st != "" {
		return st
	}
	return s.EffectiveStrategy()
}
