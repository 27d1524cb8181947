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

// DecisionKind names a manager decision.
type DecisionKind string

const (
	DecisionSteal          DecisionKind = "steal"
	DecisionBunt           DecisionKind = "bunt"
	DecisionCount30        DecisionKind = "count30"
	DecisionCount02        DecisionKind = "count02"
	DecisionIBB            DecisionKind = "ibb"
	DecisionIBBOrSteal     DecisionKind = "ibb_or_steal"
	DecisionPinchHitter    DecisionKind = "pinch_hitter"
	DecisionDefensiveShift DecisionKind = "defensive_shift"
)

// Valid reports whether k is a known decision kind.
func (k DecisionKind) Valid() bool {
	switch k {
	case DecisionSteal, DecisionBunt, DecisionCount30, DecisionCount02,
		DecisionIBB, DecisionIBBOrSteal, DecisionPinchHitter, DecisionDefensiveShift:
		return true
	}
	return false
}

// Decision is an offered manager decision. Base and SuccessPct are only
// meaningful for steal and ibb_or_steal.
type Decision struct {
	Kind       DecisionKind `json:"kind"`
	Base       int          `json:"base,omitempty"`
	SuccessPct int          `json:"successPct,omitempty"`
}

// Side returns the team that owns the decision. Walking a batter and
// shifting the infield are the fielding team's calls.
func (d Decision) Side(s GameState) int {
	switch d.Kind {
	case DecisionIBB, DecisionDefensiveShift:
		return s.FieldingTeam()
	}
	return s.BattingTeam()
}

const (
	ibbMinInning      = 7
	ibbMaxScoreGap    = 2
	stealRateFirst    = 70.0
	stealRateSecond   = 60.0
	stealMaxPct       = 95
	stealMinPct       = 65
	pinchHitMinInning = 7
)

// DetectDecision returns the decision to offer the batting side before the
// next pitch, or nil. The checks run in a fixed order and the first match wins.
// A plain steal needs fewer than two outs, but the steal half of ibb_or_steal
// does not: the intentional walk is only offered with two outs, and the
// pairing keeps the steal on the table there.
func DetectDecision(s GameState, strategy Strategy, managerMode bool) *Decision {
	if !managerMode || s.GameOver || s.SuppressNextDecision {
		return nil
	}
	base, pct, stealOK := stealOption(s, strategy)
	ibbOK := ibbEligible(s)

	switch {
	case ibbOK && stealOK:
		return &Decision{Kind: DecisionIBBOrSteal, Base: base, SuccessPct: pct}
	case ibbOK:
		return &Decision{Kind: DecisionIBB}
	case stealOK && s.Outs < 2:
		return &Decision{Kind: DecisionSteal, Base: base, SuccessPct: pct}
	case pinchHitEligible(s):
		return &Decision{Kind: DecisionPinchHitter}
	case (s.Bases[0] || s.Bases[1]) && s.Outs < 2:
		return &Decision{Kind: DecisionBunt}
	case s.Balls == 3 && s.Strikes == 0:
		return &Decision{Kind: DecisionCount30}
	case s.Balls == 0 && s.Strikes == 2:
		return &Decision{Kind: DecisionCount02}
	}
	return nil
}

// DetectShift offers the fielding side a shift once per at-bat, before the
// first pitch.
func DetectShift(s GameState, managerMode bool) *Decision {
	if !managerMode || s.GameOver || s.SuppressNextDecision {
		return nil
	}
	if s.Balls != 0 || s.Strikes != 0 || s.DefensiveShift || s.DefensiveShiftOffered {
		return nil
	}
	return &Decision{Kind: DecisionDefensiveShift}
}

func ibbEligible(s GameState) bool {
	if s.Bases[0] || !(s.Bases[1] || s.Bases[2]) {
		return false
	}
	gap := s.Score[Away] - s.Score[Home]
	if gap < 0 {
		gap = -gap
	}
	return s.Outs == 2 && s.Inning >= ibbMinInning && gap <= ibbMaxScoreGap
}

// stealOption looks at first-to-second before second-to-third. The outs
// limit is applied by the caller so a two-out steal can still be paired
// with an intentional walk.
func stealOption(s GameState, strategy Strategy) (base, pct int, ok bool) {
	factor := strategy.profile().steal
	if s.Bases[0] && !s.Bases[1] {
		if p := stealPct(stealRateFirst, factor); p > stealMinPct {
			return 0, p, true
		}
	}
	if s.Bases[1] && !s.Bases[2] {
		if p := stealPct(stealRateSecond, factor); p > stealMinPct {
			return 1, p, true
		}
	}
	return 0, 0, false
}

func stealPct(rate, factor float64) int {
	return min(roundPct(rate*factor), stealMaxPct)
}

func pinchHitEligible(s GameState) bool {
	return s.Inning >= pinchHitMinInning &&
		s.Outs < 2 &&
		(s.Bases[1] || s.Bases[2]) &&
		s.PinchHitterStrategy == "" &&
		s.Balls == 0 && s.Strikes == 0
}
