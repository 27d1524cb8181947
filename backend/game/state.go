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
	"maps"
	"slices"
)

// CurrentSchemaVersion is stamped on every state produced or restored by this package.
const CurrentSchemaVersion = 3

// DefaultLineupSize is used for lineup rotation when a team has no roster.
const DefaultLineupSize = 9

// FallbackTeamNames are used when neither the caller nor a save provides names.
var FallbackTeamNames = [2]string{"Away", "Home"}

// GameState is the complete record of a game. A Reducer never mutates a
// state it was handed; every transition returns a fresh value.
type GameState struct {
	SchemaVersion int `json:"schemaVersion"`

	Inning  int       `json:"inning"`
	Half    Half      `json:"half"`
	Score   [2]int    `json:"score"`
	Outs    int       `json:"outs"`
	Strikes int       `json:"strikes"`
	Balls   int       `json:"balls"`
	Bases   [3]bool   `json:"bases"`
	Runners [3]string `json:"runners"`

	GameOver             bool             `json:"gameOver"`
	PendingDecision      *Decision        `json:"pendingDecision"`
	OnePitchModifier     OnePitchModifier `json:"onePitchModifier"`
	PitchKey             int              `json:"pitchKey"`
	DecisionLog          []string         `json:"decisionLog"`
	SuppressNextDecision bool             `json:"suppressNextDecision"`

	// Pitch keys at which the driver last ran its once-per-pitch manager
	// checks, -1 before the first run. Saved so a restored game does not
	// offer the same decision twice.
	ChangeCheckedAt   int `json:"changeCheckedAt"`
	ShiftCheckedAt    int `json:"shiftCheckedAt"`
	DecisionCheckedAt int `json:"decisionCheckedAt"`

	// Cleared when the batter's at-bat ends.
	PinchHitterStrategy   Strategy `json:"pinchHitterStrategy"`
	DefensiveShift        bool     `json:"defensiveShift"`
	DefensiveShiftOffered bool     `json:"defensiveShiftOffered"`

	TeamNames      [2]string                 `json:"teamNames"`
	Strategies     [2]Strategy               `json:"strategies"`
	BattingOrder   [2]int                    `json:"battingOrder"`
	Lineups        [2][]string               `json:"lineups"`
	Positions      [2][]string               `json:"positions"`
	Bench          [2][]string               `json:"bench"`
	Pitchers       [2][]string               `json:"pitchers"`
	ActivePitcher  [2]int                    `json:"activePitcher"`
	SubstitutedOut [2][]string               `json:"substitutedOut"`
	BattersFaced   [2]int                    `json:"battersFaced"`
	PitcherRoles   [2]map[string]PitcherRole `json:"pitcherRoles"`
	PlayerMods     [2]map[string]PlayerMods  `json:"playerMods"`

	PlayLog      []PlayLogEntry   `json:"playLog"`
	StrikeoutLog []StrikeoutEntry `json:"strikeoutLog"`
	OutLog       []OutEntry       `json:"outLog"`
	InningRuns   [2][]int         `json:"inningRuns"`
}

// NewState returns the state of a game that has not thrown a pitch.
func NewState(teams [2]string) GameState {
	s := GameState{
		SchemaVersion: CurrentSchemaVersion,
		Inning:        1,
		Half:          Top,
		DecisionLog:   []string{},
		PlayLog:       []PlayLogEntry{},
		StrikeoutLog:  []StrikeoutEntry{},
		OutLog:        []OutEntry{},
		Strategies:    [2]Strategy{StrategyBalanced, StrategyBalanced},

		ChangeCheckedAt:   -1,
		ShiftCheckedAt:    -1,
		DecisionCheckedAt: -1,
	}
	for t := range 2 {
		s.TeamNames[t] = teams[t]
		if s.TeamNames[t] == "" {
			s.TeamNames[t] = FallbackTeamNames[t]
		}
		s.Lineups[t] = []string{}
		s.Positions[t] = []string{}
		s.Bench[t] = []string{}
		s.Pitchers[t] = []string{}
		s.SubstitutedOut[t] = []string{}
		s.PitcherRoles[t] = map[string]PitcherRole{}
		s.PlayerMods[t] = map[string]PlayerMods{}
		s.InningRuns[t] = []int{}
	}
	return s
}

// Clone returns a deep copy of s.
func (s GameState) Clone() GameState {
	c := s
	if s.PendingDecision != nil {
		d := *s.PendingDecision
		c.PendingDecision = &d
	}
	c.DecisionLog = slices.Clone(s.DecisionLog)
	c.PlayLog = slices.Clone(s.PlayLog)
	for i, e := range c.PlayLog {
		if e.RBI != nil {
			rbi := *e.RBI
			c.PlayLog[i].RBI = &rbi
		}
	}
	c.StrikeoutLog = slices.Clone(s.StrikeoutLog)
	c.OutLog = slices.Clone(s.OutLog)
	for t := range 2 {
		c.Lineups[t] = slices.Clone(s.Lineups[t])
		c.Positions[t] = slices.Clone(s.Positions[t])
		c.Bench[t] = slices.Clone(s.Bench[t])
		c.Pitchers[t] = slices.Clone(s.Pitchers[t])
		c.SubstitutedOut[t] = slices.Clone(s.SubstitutedOut[t])
		c.PitcherRoles[t] = maps.Clone(s.PitcherRoles[t])
		c.PlayerMods[t] = maps.Clone(s.PlayerMods[t])
		c.InningRuns[t] = slices.Clone(s.InningRuns[t])
	}
	return c
}

// BattingTeam is the index of the team at the plate.
func (s *GameState) BattingTeam() int {
	return int(s.Half)
}

// FieldingTeam is the index of the team in the field.
func (s *GameState) FieldingTeam() int {
	return 1 - int(s.Half)
}

func (s *GameState) lineupSize(team int) int {
	if n := len(s.Lineups[team]); n > 0 {
		return n
	}
	return DefaultLineupSize
}

// CurrentBatter returns the player id and lineup slot of the batter at the
// plate. The id is empty when the batting team has no roster.
func (s *GameState) CurrentBatter() (string, int) {
	team := s.BattingTeam()
	slot := s.BattingOrder[team]
	if slot >= 0 && slot < len(s.Lineups[team]) {
		return s.Lineups[team][slot], slot
	}
	return "", slot
}

// ActivePitcherID returns the id of the fielding team's pitcher.
func (s *GameState) ActivePitcherID(team int) string {
	idx := s.ActivePitcher[team]
	if idx >= 0 && idx < len(s.Pitchers[team]) {
		return s.Pitchers[team][idx]
	}
	return ""
}

// EffectiveStrategy is the strategy the batter at the plate plays.
func (s *GameState) EffectiveStrategy() Strategy {
	if s.PinchHitterStrategy != "" {
		return s.PinchHitterStrategy
	}
	if st := s.Strategies[s.BattingTeam()]; st != "" {
		return st
	}
	return StrategyBalanced
}

// addRuns credits runs to the scoreboard and the inning ledger together.
func (s *GameState) addRuns(team, runs int) {
	if runs <= 0 {
		return
	}
	for len(s.InningRuns[team]) < s.Inning {
		s.InningRuns[team] = append(s.InningRuns[team], 0)
	}
	s.InningRuns[team][s.Inning-1] += runs
	s.Score[team] += runs
}

func (s *GameState) clearAtBatFlags() {
	s.PinchHitterStrategy = ""
	s.DefensiveShift = false
	s.DefensiveShiftOffered = false
}
