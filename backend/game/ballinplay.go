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
	contactBase        = 750.0
	shiftContactFactor = 0.85
	powerHomeRunChance = 0.12
	groundBallShare    = 0.4
	doublePlayChance   = 0.65
)

// resolveHit puts a ball in play. Home runs and walks go straight to the
// baserunning resolver; everything else first has to survive the contact check.
func (r *Reducer) resolveHit(s *GameState, hit HitType, strategy Strategy) error {
	if !hit.Valid() {
		return wrapHitType(hit)
	}
	if hit != HitHomeRun && hit != HitWalk {
		threshold := contactBase * strategy.profile().contact
		if s.DefensiveShift {
			threshold *= shiftContactFactor
		}
		roll := r.rng.Next() * 1000
		if roll >= threshold {
			switch {
			case strategy == StrategyPower && r.rng.Next() < powerHomeRunChance:
				hit = HitHomeRun
			case roll-threshold < groundBallShare*(1000-threshold):
				r.groundBall(s)
				return nil
			default:
				r.batterOut(s, OutPop)
				return nil
			}
		}
	}
	return r.cleanHit(s, hit)
}

// cleanHit applies a hit or walk that the defense could not turn into an out.
func (r *Reducer) cleanHit(s *GameState, hit HitType) error {
	team := s.BattingTeam()
	batter, slot := s.CurrentBatter()
	adv, err := Advance(hit, s.Bases, s.Runners, batter)
	if err != nil {
		return err
	}
	s.Bases = adv.Bases
	s.Runners = adv.Runners
	s.addRuns(team, adv.Runs)

	rbi := adv.Runs
	s.PlayLog = append(s.PlayLog, PlayLogEntry{
		Inning: s.Inning,
		Half:   s.Half,
		Team:   team,
		Batter: batter,
		Slot:   slot,
		Event:  hit,
		Runs:   adv.Runs,
		RBI:    &rbi,
	})
	r.completeAtBat(s)
	r.checkWalkOff(s)
	return nil
}

// groundBall turns two with a runner on first and fewer than two outs, or
// settles for the lead runner. Otherwise the batter is thrown out.
func (r *Reducer) groundBall(s *GameState) {
	if !s.Bases[0] || s.Outs >= 2 {
		r.batterOut(s, OutGround)
		return
	}
	if r.rng.Next() < doublePlayChance {
		s.Bases[0] = false
		s.Runners[0] = ""
		r.logOut(s, OutDoublePlay)
		if r.recordOut(s, false) != PhaseInProgress {
			return
		}
		r.recordOut(s, true)
		return
	}
	r.forceLeadRunner(s)
}

// forceLeadRunner retires the lead forced runner. The runners behind move up
// and the batter takes first.
func (r *Reducer) forceLeadRunner(s *GameState) {
	lead := 0
	if s.Bases[1] {
		lead = 1
		if s.Bases[2] {
			lead = 2
		}
	}
	s.Bases[lead] = false
	s.Runners[lead] = ""
	for b := lead - 1; b >= 0; b-- {
		s.Bases[b+1] = true
		s.Runners[b+1] = s.Runners[b]
	}
	batter, _ := s.CurrentBatter()
	s.Bases[0] = true
	s.Runners[0] = batter
	r.logOut(s, OutFieldersChoice)
	r.recordOut(s, true)
}

// batterOut retires the batter and ends the at-bat.
func (r *Reducer) batterOut(s *GameState, kind OutKind) {
	r.logOut(s, kind)
	r.recordOut(s, true)
}

func (r *Reducer) logOut(s *GameState, kind OutKind) {
	batter, slot := s.CurrentBatter()
	s.OutLog = append(s.OutLog, OutEntry{
		Inning: s.Inning,
		Half:   s.Half,
		Team:   s.BattingTeam(),
		Batter: batter,
		Slot:   slot,
		Kind:   kind,
	})
}
