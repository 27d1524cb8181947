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

const (
	buntSingleChance        = 10.0
	buntSingleChanceContact = 20.0
	buntFieldersChoiceWidth = 20.0
	buntSacrificeCeiling    = 80.0
)

// resolveBunt rolls once against the bunt thresholds. A contact hitter
// beats out more bunts.
func (r *Reducer) resolveBunt(s *GameState, strategy Strategy) error {
	single := buntSingleChance
	if strategy == StrategyContact {
		single = buntSingleChanceContact
	}
	fc := single + buntFieldersChoiceWidth

	roll := r.rng.Next() * 100
	switch {
	case roll < single:
		if err := r.cleanHit(s, HitSingle); err != nil {
			return err
		}
	case roll < fc && (s.Bases[0] || s.Bases[1]):
		r.buntFieldersChoice(s)
	case roll < buntSacrificeCeiling:
		r.sacrifice(s)
	default:
		r.batterOut(s, OutBuntPop)
	}
	r.checkWalkOff(s)
	return nil
}

// buntFieldersChoice retires the lead runner on first or second. A runner
// already on third scores unless that out ends the inning.
func (r *Reducer) buntFieldersChoice(s *GameState) {
	team := s.BattingTeam()
	endsInning := s.Outs >= 2

	runs := 0
	if s.Bases[2] {
		runs = 1
		s.Bases[2] = false
		s.Runners[2] = ""
	}
	lead := 0
	if s.Bases[1] {
		lead = 1
	}
	s.Bases[lead] = false
	s.Runners[lead] = ""
	for b := lead - 1; b >= 0; b-- {
		if s.Bases[b] {
			s.Bases[b+1] = true
			s.Runners[b+1] = s.Runners[b]
			s.Bases[b] = false
			s.Runners[b] = ""
		}
	}
	batter, _ := s.CurrentBatter()
	s.Bases[0] = true
	s.Runners[0] = batter

	if !endsInning {
		s.addRuns(team, runs)
	}
	r.logOut(s, OutFieldersChoice)
	r.recordOut(s, true)
}

// sacrifice moves every runner up one base at the cost of the batter.
func (r *Reducer) sacrifice(s *GameState) {
	team := s.BattingTeam()
	runs := 0
	if s.Bases[2] {
		runs = 1
	}
	s.Bases = [3]bool{false, s.Bases[0], s.Bases[1]}
	s.Runners = [3]string{"", s.Runners[0], s.Runners[1]}
	if s.Outs < 2 {
		s.addRuns(team, runs)
	}
	r.batterOut(s, OutSacrifice)
}
