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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/ttbt-io/pitchbypitch/backend/game"
)

// ErrInvalidAction wraps every payload that decodes but can't be played.
var ErrInvalidAction = errors.New("invalid action")

// uuidRegex is a regex for standard UUIDs (8-4-4-4-12 hex digits)
var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// isValidUUID checks if the string is a valid UUID.
func isValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// ValidateAction decodes a {type, payload} action and checks its fields
// before it can reach a Reducer. An unknown type is a
// *game.UnhandledActionError.
func ValidateAction(raw json.RawMessage) (game.Action, error) {
	a, err := game.DecodeAction(raw)
	if err != nil {
		var unhandled *game.UnhandledActionError
		if errors.As(err, &unhandled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	if err := validateActionPayload(a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAction, a.Type(), err)
	}
	return a, nil
}

func validStrategy(s game.Strategy) error {
	if s != "" && !s.Valid() {
		return fmt.Errorf("unknown strategy %q", s)
	}
	return nil
}

// validateActionPayload checks the fields of a decoded action.
func validateActionPayload(a game.Action) error {
	switch a := a.(type) {
	case game.Hit:
		if !a.HitType.Valid() {
			return fmt.Errorf("unknown hit type %q", a.HitType)
		}
		return validStrategy(a.Strategy)

	case game.Wait:
		if !a.PitchType.Valid() {
			return fmt.Errorf("unknown pitch type %q", a.PitchType)
		}
		return validStrategy(a.Strategy)

	case game.BuntAttempt:
		return validStrategy(a.Strategy)

	case game.StealAttempt:
		if a.Base != 0 && a.Base != 1 {
			return fmt.Errorf("steal base must be 0 or 1, got %d", a.Base)
		}
		if a.SuccessPct < 0 || a.SuccessPct > 100 {
			return fmt.Errorf("success percentage %d out of range", a.SuccessPct)
		}

	case game.SetOnePitchModifier:
		if !a.Modifier.Valid() {
			return fmt.Errorf("unknown modifier %q", a.Modifier)
		}

	case game.SetPinchHitterStrategy:
		if !a.Strategy.Valid() {
			return fmt.Errorf("unknown strategy %q", a.Strategy)
		}

	case game.SetPendingDecision:
		if !a.Decision.Kind.Valid() {
			return fmt.Errorf("unknown decision %q", a.Decision.Kind)
		}
		if a.Decision.SuccessPct < 0 || a.Decision.SuccessPct > 100 {
			return fmt.Errorf("success percentage %d out of range", a.Decision.SuccessPct)
		}

	case game.MakeSubstitution:
		if a.Team != game.Away && a.Team != game.Home {
			return fmt.Errorf("team %d out of range", a.Team)
		}
		switch a.Kind {
		case game.SubBatter:
			if a.Slot < 0 || a.PlayerID == "" {
				return fmt.Errorf("batter substitution needs a slot and a player")
			}
		case game.SubPitcher:
			if a.PitcherIndex < 0 {
				return fmt.Errorf("pitcher index %d out of range", a.PitcherIndex)
			}
		default:
			return fmt.Errorf("unknown substitution kind %q", a.Kind)
		}

	case game.RestoreGame:
		if trimmed := bytes.TrimSpace(a.State); len(trimmed) == 0 || trimmed[0] != '{' {
			return fmt.Errorf("state must be an object")
		}

	case game.SetTeams:
		return a.Setup.Normalize().Validate()
	}
	return nil
}
