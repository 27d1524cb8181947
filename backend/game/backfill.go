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
)

// Backfill turns a saved state of any schema version into a current one.
// It starts from a fresh state and overlays each saved field on its own: a
// field that is missing, null or the wrong shape keeps the fresh default.
// Backfill never fails, and Backfill(json(Backfill(x))) equals Backfill(x).
func Backfill(raw []byte) GameState {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		fields = nil
	}

	var names [2]string
	overlay(fields, "teamNames", &names)
	s := NewState(names)

	overlay(fields, "inning", &s.Inning)
	overlay(fields, "half", &s.Half)
	overlay(fields, "score", &s.Score)
	overlay(fields, "outs", &s.Outs)
	overlay(fields, "strikes", &s.Strikes)
	overlay(fields, "balls", &s.Balls)
	overlay(fields, "bases", &s.Bases)
	overlay(fields, "runners", &s.Runners)
	overlay(fields, "gameOver", &s.GameOver)
	overlay(fields, "pendingDecision", &s.PendingDecision)
	overlay(fields, "onePitchModifier", &s.OnePitchModifier)
	overlay(fields, "pitchKey", &s.PitchKey)
	overlay(fields, "decisionLog", &s.DecisionLog)
	overlay(fields, "suppressNextDecision", &s.SuppressNextDecision)
	overlay(fields, "changeCheckedAt", &s.ChangeCheckedAt)
	overlay(fields, "shiftCheckedAt", &s.ShiftCheckedAt)
	overlay(fields, "decisionCheckedAt", &s.DecisionCheckedAt)
	overlay(fields, "pinchHitterStrategy", &s.PinchHitterStrategy)
	overlay(fields, "defensiveShift", &s.DefensiveShift)
	overlay(fields, "defensiveShiftOffered", &s.DefensiveShiftOffered)
	overlay(fields, "strategies", &s.Strategies)
	overlay(fields, "battingOrder", &s.BattingOrder)
	overlay(fields, "lineups", &s.Lineups)
	overlay(fields, "positions", &s.Positions)
	overlay(fields, "bench", &s.Bench)
	overlay(fields, "pitchers", &s.Pitchers)
	overlay(fields, "activePitcher", &s.ActivePitcher)
	overlay(fields, "substitutedOut", &s.SubstitutedOut)
	overlay(fields, "battersFaced", &s.BattersFaced)
	overlay(fields, "pitcherRoles", &s.PitcherRoles)
	overlay(fields, "playerMods", &s.PlayerMods)
	overlay(fields, "playLog", &s.PlayLog)
	overlay(fields, "strikeoutLog", &s.StrikeoutLog)
	overlay(fields, "outLog", &s.OutLog)
	overlay(fields, "inningRuns", &s.InningRuns)

	return BackfillState(s)
}

// overlay replaces *dst with the saved value for key when it decodes cleanly.
func overlay[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// BackfillState re-guards every collection of s against nil, pulls the
// scalars that index into per-team data back into range and patches
// play-log entries that predate the rbi field.
func BackfillState(s GameState) GameState {
	s = s.Clone()
	s.SchemaVersion = CurrentSchemaVersion
	if s.Inning < 1 {
		s.Inning = 1
	}
	if s.Half != Top && s.Half != Bottom {
		s.Half = Top
	}
	s.Outs = clamp(s.Outs, 0, 2)
	s.Strikes = clamp(s.Strikes, 0, 2)
	s.Balls = clamp(s.Balls, 0, 3)
	s.PitchKey = max(s.PitchKey, 0)
	for t := range 2 {
		if s.TeamNames[t] == "" {
			s.TeamNames[t] = FallbackTeamNames[t]
		}
		if s.Strategies[t] == "" {
			s.Strategies[t] = StrategyBalanced
		}
		s.Lineups[t] = orEmpty(s.Lineups[t])
		s.Positions[t] = orEmpty(s.Positions[t])
		s.Bench[t] = orEmpty(s.Bench[t])
		s.Pitchers[t] = orEmpty(s.Pitchers[t])
		s.SubstitutedOut[t] = orEmpty(s.SubstitutedOut[t])
		s.InningRuns[t] = orEmpty(s.InningRuns[t])
		s.Score[t] = max(s.Score[t], 0)
		s.BattersFaced[t] = max(s.BattersFaced[t], 0)
		if o := s.BattingOrder[t]; o < 0 || o >= s.lineupSize(t) {
			s.BattingOrder[t] = 0
		}
		if p := s.ActivePitcher[t]; p < 0 || p >= len(s.Pitchers[t]) {
			s.ActivePitcher[t] = 0
		}
		if s.PitcherRoles[t] == nil {
			s.PitcherRoles[t] = map[string]PitcherRole{}
		}
		if s.PlayerMods[t] == nil {
			s.PlayerMods[t] = map[string]PlayerMods{}
		}
	}
	s.DecisionLog = orEmpty(s.DecisionLog)
	s.PlayLog = orEmpty(s.PlayLog)
	s.StrikeoutLog = orEmpty(s.StrikeoutLog)
	s.OutLog = orEmpty(s.OutLog)
	for i := range s.PlayLog {
		if s.PlayLog[i].RBI == nil {
			rbi := s.PlayLog[i].Runs
			s.PlayLog[i].RBI = &rbi
		}
	}
	return s
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
