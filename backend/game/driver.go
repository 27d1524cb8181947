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
	"errors"
	"fmt"
)

// StepResult says what a Driver step did.
type StepResult int

const (
	StepPitched StepResult = iota
	StepManaged
	StepAwaitingDecision
	StepGameOver
)

var (
	// ErrAwaitingDecision is returned by PlayToEnd when a human decision is
	// pending and the Driver has no Manager to ask.
	ErrAwaitingDecision = errors.New("awaiting manager decision")
	// ErrStepLimit is returned by PlayToEnd when the game did not finish.
	ErrStepLimit = errors.New("step limit reached")
)

// Driver plays a game forward: it calls pitches, asks managers for their
// decisions and feeds everything through the Reducer. All draws come from
// the Reducer's Source, so a Driver run is as deterministic as the Reducer.
type Driver struct {
	Reducer *Reducer
	State   GameState
	// ManagerMode turns decision prompts on. Pitching changes happen either way.
	ManagerMode bool
	// ManagedSide is the human side when ManagerMode is on.
	ManagedSide int
	// Human resolves the managed side's decisions. Nil leaves them pending
	// for an external caller.
	Human Manager
	// OnTransition is called with every new state.
	OnTransition func(GameState)
}

// NewDriver returns a Driver that continues from state.
func NewDriver(r *Reducer, state GameState, managerMode bool, managedSide int, human Manager) *Driver {
	return &Driver{
		Reducer:     r,
		State:       state,
		ManagerMode: managerMode,
		ManagedSide: managedSide,
		Human:       human,
	}
}

// Dispatch applies actions in order, stopping at the first error.
func (d *Driver) Dispatch(actions ...Action) error {
	for _, a := range actions {
		next, err := d.Reducer.Dispatch(d.State, a)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", a.Type(), err)
		}
		d.State = next
		if d.OnTransition != nil {
			d.OnTransition(next)
		}
	}
	return nil
}

func (d *Driver) managerFor(side int) Manager {
	if d.ManagerMode && side == d.ManagedSide {
		return d.Human
	}
	return AIManager{Team: side}
}

// Step advances the game by one unit: a resolved decision, a manager
// action that used up the pitch, or one pitch.
func (d *Driver) Step() (StepResult, error) {
	s := d.State
	if s.GameOver {
		return StepGameOver, nil
	}

	if s.PendingDecision != nil {
		m := d.managerFor(s.PendingDecision.Side(s))
		if m == nil {
			return StepAwaitingDecision, nil
		}
		actions := m.Decide(s, *s.PendingDecision)
		if err := d.Dispatch(actions...); err != nil {
			return StepManaged, err
		}
		if d.State.PendingDecision != nil {
			return StepManaged, d.Dispatch(SkipDecision{})
		}
		return StepManaged, nil
	}

	if s.SuppressNextDecision {
		if err := d.Dispatch(ClearSuppressDecision{}); err != nil {
			return StepPitched, err
		}
		d.State.ShiftCheckedAt = s.PitchKey
		d.State.DecisionCheckedAt = s.PitchKey
	} else if done, err := d.manage(); err != nil || done {
		return StepManaged, err
	}

	action := CallPitch(d.State, d.Reducer.Source(), d.State.EffectiveStrategy())
	return StepPitched, d.Dispatch(action)
}

// manage runs the once-per-pitch manager checks. It reports whether the
// step was used up. The checked markers live in the state so they survive
// an export and restore.
func (d *Driver) manage() (bool, error) {
	pk := d.State.PitchKey

	if d.State.ChangeCheckedAt != pk {
		d.State.ChangeCheckedAt = pk
		s := d.State
		if m := d.managerFor(s.FieldingTeam()); m != nil {
			if sub, ok := m.PitchingChange(s); ok {
				if err := d.Dispatch(sub); err != nil {
					return true, err
				}
			}
		}
	}
	if !d.ManagerMode {
		return false, nil
	}

	if d.State.ShiftCheckedAt != pk {
		d.State.ShiftCheckedAt = pk
		if dec := DetectShift(d.State, true); dec != nil {
			if done, err := d.offer(*dec); err != nil || done {
				return true, err
			}
		}
	}
	if d.State.DecisionCheckedAt != pk {
		d.State.DecisionCheckedAt = pk
		if dec := DetectDecision(d.State, d.State.EffectiveStrategy(), true); dec != nil {
			return d.offer(*dec)
		}
	}
	return false, nil
}

// offer hands a decision to its owner. The human side gets a pending
// decision; the AI answers on the spot.
func (d *Driver) offer(dec Decision) (bool, error) {
	side := dec.Side(d.State)
	if side == d.ManagedSide {
		return true, d.Dispatch(SetPendingDecision{Decision: dec})
	}
	pk := d.State.PitchKey
	actions := AIManager{Team: side}.Decide(d.State, dec)
	if err := d.Dispatch(actions...); err != nil {
		return true, err
	}
	return d.State.PitchKey != pk || d.State.GameOver, nil
}

// PlayToEnd steps until the game ends.
func (d *Driver) PlayToEnd(maxSteps int) (GameState, error) {
	for range maxSteps {
		res, err := d.Step()
		if err != nil {
			return d.State, err
		}
		switch res {
		case StepGameOver:
			return d.State, nil
		case StepAwaitingDecision:
			return d.State, ErrAwaitingDecision
		}
	}
	if d.State.GameOver {
		return d.State, nil
	}
	return d.State, ErrStepLimit
}

// LogManager replays one side's recorded decisions, matched by pitch key in
// the order they were written.
type LogManager struct {
	Team    int
	entries map[int][]DecisionEntry
}

var _ Manager = (*LogManager)(nil)

// NewLogManager indexes the entries of log that belong to team. Untagged
// decision entries always belong to the human side.
func NewLogManager(team int, log []string) *LogManager {
	m := &LogManager{Team: team, entries: map[int][]DecisionEntry{}}
	for _, e := range ParseDecisionLog(log) {
		if e.Team >= 0 && e.Team != team {
			continue
		}
		m.entries[e.PitchKey] = append(m.entries[e.PitchKey], e)
	}
	return m
}

func (m *LogManager) pop(pk int) (DecisionEntry, bool) {
	q := m.entries[pk]
	if len(q) == 0 {
		return DecisionEntry{}, false
	}
	m.entries[pk] = q[1:]
	return q[0], true
}

func (m *LogManager) peek(pk int) (DecisionEntry, bool) {
	q := m.entries[pk]
	if len(q) == 0 {
		return DecisionEntry{}, false
	}
	return q[0], true
}

// Decide returns the recorded substitutions at this pitch followed by the
// recorded resolution. A decision with nothing recorded is skipped.
func (m *LogManager) Decide(s GameState, _ Decision) []Action {
	var actions []Action
	for {
		e, ok := m.pop(s.PitchKey)
		if !ok {
			return append(actions, SkipDecision{})
		}
		actions = append(actions, e.Action)
		if _, isSub := e.Action.(MakeSubstitution); !isSub {
			return actions
		}
	}
}

// PitchingChange returns the recorded pitching change at this pitch, if the
// next recorded entry is one.
func (m *LogManager) PitchingChange(s GameState) (MakeSubstitution, bool) {
	e, ok := m.peek(s.PitchKey)
	if !ok {
		return MakeSubstitution{}, false
	}
	sub, isSub := e.Action.(MakeSubstitution)
	if !isSub || sub.Kind != SubPitcher {
		return MakeSubstitution{}, false
	}
	m.pop(s.PitchKey)
	return sub, true
}
