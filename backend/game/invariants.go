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

// Violation is one broken invariant in a state snapshot.
type Violation struct {
	Rule   string
	Detail string
}

// CheckInvariants reports every impossible value in s. It never changes s.
func CheckInvariants(s GameState) []Violation {
	var vs []Violation
	add := func(rule, format string, args ...any) {
		vs = append(vs, Violation{Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	if s.Half != Top && s.Half != Bottom {
		add("half", "batting side %d is neither top nor bottom", s.Half)
	}
	if s.Inning < 1 {
		add("inning", "inning %d", s.Inning)
	}
	if s.Outs < 0 || s.Outs > 2 {
		add("outs", "outs %d outside 0..2", s.Outs)
	}
	if s.Strikes < 0 || s.Strikes > 2 {
		add("strikes", "strikes %d outside 0..2", s.Strikes)
	}
	if s.Balls < 0 || s.Balls > 3 {
		add("balls", "balls %d outside 0..3", s.Balls)
	}
	for team := range 2 {
		if n := s.lineupSize(team); s.BattingOrder[team] < 0 || s.BattingOrder[team] >= n {
			add("batting_order", "team %d batting order %d outside 0..%d", team, s.BattingOrder[team], n-1)
		}
		if s.Score[team] < 0 {
			add("score", "team %d score %d", team, s.Score[team])
		}
		sum := 0
		for _, runs := range s.InningRuns[team] {
			sum += runs
		}
		if sum != s.Score[team] {
			add("inning_runs", "team %d inning runs sum %d, scoreboard %d", team, sum, s.Score[team])
		}
	}
	return vs
}

func (r *Reducer) reportViolations(s GameState) {
	for _, v := range CheckInvariants(s) {
		r.log.Warn().
			Uint32("seed", r.seed).
			Str("saveId", r.saveID).
			Int("inning", s.Inning).
			Str("half", s.Half.String()).
			Int("pitchKey", s.PitchKey).
			Str("rule", v.Rule).
			Msg(v.Detail)
	}
}
