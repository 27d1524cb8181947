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
	"bytes"
	"encoding/json"
	"fmt"
)

// ActionType is the wire name of an action.
type ActionType string

const (
	ActionHit                    ActionType = "hit"
	ActionStrike                 ActionType = "strike"
	ActionFoul                   ActionType = "foul"
	ActionWait                   ActionType = "wait"
	ActionStealAttempt           ActionType = "steal_attempt"
	ActionBuntAttempt            ActionType = "bunt_attempt"
	ActionIntentionalWalk        ActionType = "intentional_walk"
	ActionSetOnePitchModifier    ActionType = "set_one_pitch_modifier"
	ActionSkipDecision           ActionType = "skip_decision"
	ActionSetPendingDecision     ActionType = "set_pending_decision"
	ActionClearSuppressDecision  ActionType = "clear_suppress_decision"
	ActionSetPinchHitterStrategy ActionType = "set_pinch_hitter_strategy"
	ActionSetDefensiveShift      ActionType = "set_defensive_shift"
	ActionMakeSubstitution       ActionType = "make_substitution"
	ActionReset                  ActionType = "reset"
	ActionRestoreGame            ActionType = "restore_game"
	ActionSetTeams               ActionType = "setTeams"
	ActionNextInning             ActionType = "nextInning"
)

// Action is one input to the Reducer. The set of implementations is closed:
// only types in this package satisfy it.
type Action interface {
	Type() ActionType
	isAction()
}

// Hit puts a ball in play with the given result.
type Hit struct {
	HitType  HitType  `json:"hitType"`
	Strategy Strategy `json:"strategy,omitempty"`
}

// Strike is a called or swinging strike.
type Strike struct {
	Swung bool `json:"swung"`
}

// Foul is a foul ball.
type Foul struct{}

// Wait is a pitch the batter takes; the generator decides ball or strike.
type Wait struct {
	Strategy  Strategy  `json:"strategy,omitempty"`
	PitchType PitchType `json:"pitchType,omitempty"`
}

// StealAttempt sends the runner on Base (0 = first, 1 = second).
type StealAttempt struct {
	Base       int `json:"base"`
	SuccessPct int `json:"successPct"`
}

// BuntAttempt lays one down.
type BuntAttempt struct {
	Strategy Strategy `json:"strategy,omitempty"`
}

// IntentionalWalk puts the batter on first.
type IntentionalWalk struct{}

// SetOnePitchModifier sets the approach for the next pitch.
type SetOnePitchModifier struct {
	Modifier OnePitchModifier `json:"modifier"`
}

// SkipDecision declines the pending decision.
type SkipDecision struct{}

// SetPendingDecision offers a decision.
type SetPendingDecision struct {
	Decision Decision `json:"decision"`
}

// ClearSuppressDecision lifts the suppression set by an intentional walk.
type ClearSuppressDecision struct{}

// SetPinchHitterStrategy sets the strategy for the rest of the at-bat.
type SetPinchHitterStrategy struct {
	Strategy Strategy `json:"strategy"`
}

// SetDefensiveShift turns the shift on or off for the current at-bat.
type SetDefensiveShift struct {
	On bool `json:"on"`
}

// SubstitutionKind distinguishes a lineup change from a pitching change.
type SubstitutionKind string

const (
	SubBatter  SubstitutionKind = "batter"
	SubPitcher SubstitutionKind = "pitcher"
)

// MakeSubstitution replaces the player in lineup Slot with bench player
// PlayerID, or makes staff member PitcherIndex the active pitcher.
type MakeSubstitution struct {
	Team         int              `json:"team"`
	Kind         SubstitutionKind `json:"kind"`
	Slot         int              `json:"slot,omitempty"`
	PlayerID     string           `json:"playerId,omitempty"`
	PitcherIndex int              `json:"pitcherIndex,omitempty"`
}

// Reset starts over with a fresh state for the same team names.
type Reset struct{}

// RestoreGame replaces the state with a saved one, passed through Backfill.
type RestoreGame struct {
	State json.RawMessage `json:"state"`
}

// SetTeams starts a new game with the given setup.
type SetTeams struct {
	Setup Setup `json:"setup"`
}

// NextInning ends the current half inning.
type NextInning struct{}

func (Hit) Type() ActionType                    { return ActionHit }
func (Strike) Type() ActionType                 { return ActionStrike }
func (Foul) Type() ActionType                   { return ActionFoul }
func (Wait) Type() ActionType                   { return ActionWait }
func (StealAttempt) Type() ActionType           { return ActionStealAttempt }
func (BuntAttempt) Type() ActionType            { return ActionBuntAttempt }
func (IntentionalWalk) Type() ActionType        { return ActionIntentionalWalk }
func (SetOnePitchModifier) Type() ActionType    { return ActionSetOnePitchModifier }
func (SkipDecision) Type() ActionType           { return ActionSkipDecision }
func (SetPendingDecision) Type() ActionType     { return ActionSetPendingDecision }
func (ClearSuppressDecision) Type() ActionType  { return ActionClearSuppressDecision }
func (SetPinchHitterStrategy) Type() ActionType { return ActionSetPinchHitterStrategy }
func (SetDefensiveShift) Type() ActionType      { return ActionSetDefensiveShift }
func (MakeSubstitution) Type() ActionType       { return ActionMakeSubstitution }
func (Reset) Type() ActionType                  { return ActionReset }
func (RestoreGame) Type() ActionType            { return ActionRestoreGame }
func (SetTeams) Type() ActionType               { return ActionSetTeams }
func (NextInning) Type() ActionType             { return ActionNextInning }

func (Hit) isAction()                    {}
func (Strike) isAction()                 {}
func (Foul) isAction()                   {}
func (Wait) isAction()                   {}
func (StealAttempt) isAction()           {}
func (BuntAttempt) isAction()            {}
func (IntentionalWalk) isAction()        {}
func (SetOnePitchModifier) isAction()    {}
func (SkipDecision) isAction()           {}
func (SetPendingDecision) isAction()     {}
func (ClearSuppressDecision) isAction()  {}
func (SetPinchHitterStrategy) isAction() {}
func (SetDefensiveShift) isAction()      {}
func (MakeSubstitution) isAction()       {}
func (Reset) isAction()                  {}
func (RestoreGame) isAction()            {}
func (SetTeams) isAction()               {}
func (NextInning) isAction()             {}

// wireAction is the {type, payload} envelope actions travel in.
type wireAction struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var actionDecoders = map[ActionType]func(json.RawMessage) (Action, error){
	ActionHit:                    decodePayload[Hit],
	ActionStrike:                 decodePayload[Strike],
	ActionFoul:                   decodePayload[Foul],
	ActionWait:                   decodePayload[Wait],
	ActionStealAttempt:           decodePayload[StealAttempt],
	ActionBuntAttempt:            decodePayload[BuntAttempt],
	ActionIntentionalWalk:        decodePayload[IntentionalWalk],
	ActionSetOnePitchModifier:    decodePayload[SetOnePitchModifier],
	ActionSkipDecision:           decodePayload[SkipDecision],
	ActionSetPendingDecision:     decodePayload[SetPendingDecision],
	ActionClearSuppressDecision:  decodePayload[ClearSuppressDecision],
	ActionSetPinchHitterStrategy: decodePayload[SetPinchHitterStrategy],
	ActionSetDefensiveShift:      decodePayload[SetDefensiveShift],
	ActionMakeSubstitution:       decodePayload[MakeSubstitution],
	ActionReset:                  decodePayload[Reset],
	ActionRestoreGame:            decodePayload[RestoreGame],
	ActionSetTeams:               decodePayload[SetTeams],
	ActionNextInning:             decodePayload[NextInning],
}

func decodePayload[T Action](payload json.RawMessage) (Action, error) {
	var a T
	if len(payload) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return a, nil
	}
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("%s payload: %w", a.Type(), err)
	}
	return a, nil
}

// DecodeAction parses the {type, payload} wire form.
func DecodeAction(data []byte) (Action, error) {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("malformed action JSON: %w", err)
	}
	decode, ok := actionDecoders[w.Type]
	if !ok {
		return nil, &UnhandledActionError{Type: w.Type}
	}
	return decode(w.Payload)
}

// EncodeAction renders a in the {type, payload} wire form.
func EncodeAction(a Action) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireAction{Type: a.Type(), Payload: payload})
}

// KnownActionType reports whether t has a decoder.
func KnownActionType(t ActionType) bool {
	_, ok := actionDecoders[t]
	return ok
}
