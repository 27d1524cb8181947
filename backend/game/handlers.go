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

// simulationHandlers resolves pitches, balls in play and baserunning.
func simulationHandlers(r *Reducer, s GameState, a Action) (GameState, bool, error) {
	switch a := a.(type) {
	case Hit:
		if !a.HitType.Valid() {
			return s, true, wrapHitType(a.HitType)
		}
		beginPitch(&s)
		err := r.resolveHit(&s, a.HitType, strategyOr(&s, a.Strategy))
		return s, true, err

	case Strike:
		beginPitch(&s)
		r.strike(&s, a.Swung)
		return s, true, nil

	case Foul:
		beginPitch(&s)
		r.foul(&s)
		return s, true, nil

	case Wait:
		modifier := beginPitch(&s)
		err := r.wait(&s, strategyOr(&s, a.Strategy), a.PitchType, modifier)
		return s, true, err

	case StealAttempt:
		if !canSteal(&s, a.Base) {
			r.log.Warn().Int("base", a.Base).Int("pitchKey", s.PitchKey).Msg("steal attempt with no runner or an occupied base ahead")
			return s, true, nil
		}
		resolveDecision(&s, a)
		s.PitchKey++
		r.steal(&s, a.Base, a.SuccessPct)
		return s, true, nil

	case BuntAttempt:
		resolveDecision(&s, a)
		beginPitch(&s)
		err := r.resolveBunt(&s, strategyOr(&s, a.Strategy))
		return s, true, err

	case IntentionalWalk:
		resolveDecision(&s, a)
		s.PitchKey++
		if err := r.cleanHit(&s, HitWalk); err != nil {
			return s, true, err
		}
		s.SuppressNextDecision = true
		return s, true, nil
	}
	return s, false, nil
}

// lifecycleHandlers starts, restores and steps through games.
func lifecycleHandlers(r *Reducer, s GameState, a Action) (GameState, bool, error) {
	switch a := a.(type) {
	case Reset:
		return NewState(s.TeamNames), true, nil

	case RestoreGame:
		restored := Backfill(a.State)
		r.log.Info().Int("inning", restored.Inning).Int("pitchKey", restored.PitchKey).Msg("game restored")
		return restored, true, nil

	case NextInning:
		if s.GameOver {
			return s, true, nil
		}
		r.endHalfInning(&s)
		return s, true, nil
	}
	return s, false, nil
}

// decisionHandlers offers and resolves manager decisions.
func decisionHandlers(r *Reducer, s GameState, a Action) (GameState, bool, error) {
	switch a := a.(type) {
	case SetPendingDecision:
		d := a.Decision
		s.PendingDecision = &d
		if d.Kind == DecisionDefensiveShift {
			s.DefensiveShiftOffered = true
		}
		return s, true, nil

	case SkipDecision:
		if s.PendingDecision != nil && s.PendingDecision.Kind == DecisionDefensiveShift {
			s.DefensiveShiftOffered = true
		}
		resolveDecision(&s, a)
		return s, true, nil

	case SetOnePitchModifier:
		resolveDecision(&s, a)
		s.OnePitchModifier = a.Modifier
		return s, true, nil

	case ClearSuppressDecision:
		s.SuppressNextDecision = false
		return s, true, nil

	case SetPinchHitterStrategy:
		resolveDecision(&s, a)
		s.PinchHitterStrategy = a.Strategy
		return s, true, nil

	case SetDefensiveShift:
		resolveDecision(&s, a)
		s.DefensiveShift = a.On
		s.DefensiveShiftOffered = true
		return s, true, nil
	}
	return s, false, nil
}

// setupHandlers builds rosters and makes substitutions.
func setupHandlers(r *Reducer, s GameState, a Action) (GameState, bool, error) {
	switch a := a.(type) {
	case SetTeams:
		return ApplySetup(NewState([2]string{a.Setup.Teams[Away].Name, a.Setup.Teams[Home].Name}), a.Setup), true, nil

	case MakeSubstitution:
		r.substitute(&s, a)
		return s, true, nil
	}
	return s, false, nil
}
