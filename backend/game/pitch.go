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

import "math"

const (
	takeBallBase     = 750.0
	takeBallCap      = 950.0
	calledStrikeBase = 500.0
)

func (r *Reducer) strike(s *GameState, swung bool) {
	if s.Strikes < 2 {
		s.Strikes++
		return
	}
	batter, slot := s.CurrentBatter()
	s.StrikeoutLog = append(s.StrikeoutLog, StrikeoutEntry{
		Inning:   s.Inning,
		Half:     s.Half,
		Team:     s.BattingTeam(),
		Batter:   batter,
		Slot:     slot,
		Swinging: swung,
	})
	r.batterOut(s, OutStrikeout)
}

// foul counts as a strike until there are two.
func (r *Reducer) foul(s *GameState) {
	if s.Strikes < 2 {
		s.Strikes++
	}
}

func (r *Reducer) ball(s *GameState) error {
	s.Balls++
	if s.Balls >= 4 {
		return r.resolveHit(s, HitWalk, s.EffectiveStrategy())
	}
	return nil
}

// wait resolves a pitch the batter did not offer at.
func (r *Reducer) wait(s *GameState, strategy Strategy, pitch PitchType, modifier OnePitchModifier) error {
	prof := strategy.profile()
	roll := r.rng.Next() * 1000
	if modifier == ModifierTake {
		if roll < math.Min(takeBallBase*prof.walk, takeBallCap) {
			return r.ball(s)
		}
		r.strike(s, false)
		return nil
	}
	threshold := calledStrikeBase / prof.walk * pitch.zone() * r.pitcherControl(s)
	if roll < threshold {
		r.strike(s, false)
		return nil
	}
	return r.ball(s)
}

func (r *Reducer) pitcherControl(s *GameState) float64 {
	team := s.FieldingTeam()
	if m, ok := s.PlayerMods[team][s.ActivePitcherID(team)]; ok && m.Control > 0 {
		return m.Control
	}
	return 1
}

// canSteal reports whether there is a runner on from with an open base ahead.
func canSteal(s *GameState, from int) bool {
	return from >= 0 && from <= 1 && s.Bases[from] && !s.Bases[from+1]
}

// steal sends the runner on from. A caught runner is out but the batter stays.
func (r *Reducer) steal(s *GameState, from, successPct int) {
	if r.rng.Next()*100 < float64(successPct) {
		s.Bases[from+1] = true
		s.Runners[from+1] = s.Runners[from]
		s.Bases[from] = false
		s.Runners[from] = ""
		return
	}
	s.Bases[from] = false
	s.Runners[from] = ""
	r.recordOut(s, false)
}
