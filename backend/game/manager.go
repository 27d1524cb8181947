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

import "slices"

// Manager resolves the decisions of one side.
type Manager interface {
	// Decide returns the actions that resolve d. An empty result skips it.
	Decide(s GameState, d Decision) []Action
	// PitchingChange returns a pitcher substitution to make before the next
	// batter, if any.
	PitchingChange(s GameState) (MakeSubstitution, bool)
}

const (
	fatigueHigh         = 27
	fatigueMedium       = 18
	fatigueMediumInning = 6
	aiStealMinPct       = 75
	aiBuntMinInning     = 7
)

// DefaultPinchStrategy is what the AI has a pinch hitter play.
const DefaultPinchStrategy = StrategyContact

// AIManager runs the side no human controls. It never draws from the
// generator, so its choices replay for free.
type AIManager struct {
	Team int
}

var _ Manager = AIManager{}

// PitchingChange pulls a tired pitcher when a replacement is available.
func (m AIManager) PitchingChange(s GameState) (MakeSubstitution, bool) {
	faced := s.BattersFaced[m.Team]
	tired := faced >= fatigueHigh || (faced >= fatigueMedium && s.Inning >= fatigueMediumInning)
	if !tired {
		return MakeSubstitution{}, false
	}
	idx := findReliever(s, m.Team)
	if idx < 0 {
		return MakeSubstitution{}, false
	}
	return MakeSubstitution{Team: m.Team, Kind: SubPitcher, PitcherIndex: idx}, true
}

// findReliever searches relievers, then dual-role arms, then anyone left.
func findReliever(s GameState, team int) int {
	for _, role := range []PitcherRole{RoleReliever, RoleDual, ""} {
		for i, id := range s.Pitchers[team] {
			if i == s.ActivePitcher[team] || slices.Contains(s.SubstitutedOut[team], id) {
				continue
			}
			if role == "" || s.PitcherRoles[team][id] == role {
				return i
			}
		}
	}
	return -1
}

// Decide applies the AI's fixed policy for each decision kind.
func (m AIManager) Decide(s GameState, d Decision) []Action {
	switch d.Kind {
	case DecisionSteal:
		if d.SuccessPct > aiStealMinPct {
			return []Action{StealAttempt{Base: d.Base, SuccessPct: d.SuccessPct}}
		}
	case DecisionIBB, DecisionIBBOrSteal:
		return []Action{IntentionalWalk{}}
	case DecisionBunt:
		if s.Inning >= aiBuntMinInning && s.Score[m.Team] <= s.Score[1-m.Team] {
			return []Action{BuntAttempt{}}
		}
	case DecisionCount30:
		return []Action{SetOnePitchModifier{Modifier: ModifierTake}}
	case DecisionCount02:
		return []Action{SetOnePitchModifier{Modifier: ModifierProtect}}
	case DecisionDefensiveShift:
		return []Action{SetDefensiveShift{On: true}}
	case DecisionPinchHitter:
		if bench := s.Bench[m.Team]; len(bench) > 0 {
			return []Action{
				MakeSubstitution{Team: m.Team, Kind: SubBatter, Slot: s.BattingOrder[m.Team], PlayerID: bench[0]},
				SetPinchHitterStrategy{Strategy: DefaultPinchStrategy},
			}
		}
		return []Action{SetPinchHitterStrategy{Strategy: DefaultPinchStrategy}}
	}
	return []Action{SkipDecision{}}
}
