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

import "fmt"

// Phase is where the out machine stands after recording an out.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseHalfInningOver
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseHalfInningOver:
		return "half-inning-over"
	case PhaseGameOver:
		return "game-over"
	}
	return "in-progress"
}

// RegulationInnings is the inning from which the game can end.
const RegulationInnings = 9

// recordOut adds an out. Only an out that completes the at-bat moves the
// lineup and resets the batter's count and flags.
func (r *Reducer) recordOut(s *GameState, atBatComplete bool) Phase {
	if atBatComplete {
		r.completeAtBat(s)
	}
	s.Outs++
	if s.Outs < 3 {
		return PhaseInProgress
	}
	r.endHalfInning(s)
	if s.GameOver {
		return PhaseGameOver
	}
	return PhaseHalfInningOver
}

// completeAtBat charges the batter to the pitcher and brings up the next one.
func (r *Reducer) completeAtBat(s *GameState) {
	team := s.BattingTeam()
	s.BattersFaced[s.FieldingTeam()]++
	s.BattingOrder[team] = (s.BattingOrder[team] + 1) % s.lineupSize(team)
	s.Balls = 0
	s.Strikes = 0
	s.clearAtBatFlags()
}

func (r *Reducer) endHalfInning(s *GameState) {
	s.Outs = 0
	s.Balls = 0
	s.Strikes = 0
	s.Bases = [3]bool{}
	s.Runners = [3]string{}
	s.OnePitchModifier = ModifierNone
	s.clearAtBatFlags()

	if s.Half == Top {
		s.Half = Bottom
		// Home already ahead: the bottom half is not played.
		if s.Inning >= RegulationInnings && s.Score[Home] > s.Score[Away] {
			s.GameOver = true
			return
		}
	} else {
		if s.Inning >= RegulationInnings && s.Score[Home] != s.Score[Away] {
			s.GameOver = true
			return
		}
		s.Half = Top
		s.Inning++
	}
	if s.Inning > RegulationInnings {
		r.placeTiebreakRunner(s)
	}
}

// placeTiebreakRunner starts an extra half inning with a runner on second:
// the batter who made the last plate appearance.
func (r *Reducer) placeTiebreakRunner(s *GameState) {
	team := s.BattingTeam()
	n := s.lineupSize(team)
	prev := (s.BattingOrder[team] + n - 1) % n
	runner := ""
	if prev < len(s.Lineups[team]) {
		runner = s.Lineups[team][prev]
	}
	s.Bases[1] = true
	s.Runners[1] = runner

	r.log.Info().
		Int("inning", s.Inning).
		Str("half", s.Half.String()).
		Str("runner", runner).
		Msg("extra innings: tiebreak runner placed on second")
	r.announce(fmt.Sprintf("Extra innings: %s starts the %s of the %d on second base.",
		runnerName(runner), s.Half, s.Inning))
}

// checkWalkOff ends the game the moment the home team takes the lead in the
// bottom of the ninth or later.
func (r *Reducer) checkWalkOff(s *GameState) {
	if !s.GameOver && s.Half == Bottom && s.Inning >= RegulationInnings && s.Score[Home] > s.Score[Away] {
		s.GameOver = true
		r.log.Debug().Int("inning", s.Inning).Ints("score", s.Score[:]).Msg("walk-off")
	}
}

func runnerName(id string) string {
	if id == "" {
		return "A runner"
	}
	return id
}
