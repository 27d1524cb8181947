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
	"reflect"
	"testing"
)

func TestAIPitchingChange(t *testing.T) {
	tests := []struct {
		name    string
		faced   int
		inning  int
		out     []string
		wantIdx int
		wantOK  bool
	}{
		{"fresh arm stays in", 26, 1, nil, 0, false},
		{"tired arm comes out", 27, 1, nil, 1, true},
		{"late innings lower the bar", 18, 6, nil, 1, true},
		{"not late enough", 18, 5, nil, 0, false},
		{"next reliever when the first is gone", 27, 1, []string{"away-p2"}, 2, true},
		{"dual role after relievers", 27, 1, []string{"away-p2", "away-p3", "away-p5"}, 3, true},
		{"any arm left", 27, 1, []string{"away-p2", "away-p3", "away-p4", "away-p5"}, 5, true},
		{"bullpen empty", 27, 1, []string{"away-p2", "away-p3", "away-p4", "away-p5", "away-p6"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rosterState()
			s.Half = Bottom
			s.Inning = tt.inning
			s.BattersFaced[Away] = tt.faced
			s.SubstitutedOut[Away] = tt.out

			sub, ok := AIManager{Team: Away}.PitchingChange(s)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (sub.PitcherIndex != tt.wantIdx || sub.Kind != SubPitcher || sub.Team != Away) {
				t.Errorf("sub = %+v, want pitcher index %d", sub, tt.wantIdx)
			}
		})
	}
}

func TestAIDecide(t *testing.T) {
	late := func(s *GameState) { s.Inning = 8 }
	tests := []struct {
		name  string
		setup func(s *GameState)
		d     Decision
		want  []Action
	}{
		{"likely steal", nil, Decision{Kind: DecisionSteal, Base: 0, SuccessPct: 91}, []Action{StealAttempt{Base: 0, SuccessPct: 91}}},
		{"marginal steal", nil, Decision{Kind: DecisionSteal, Base: 0, SuccessPct: 70}, []Action{SkipDecision{}}},
		{"steal at the threshold skipped", nil, Decision{Kind: DecisionSteal, Base: 0, SuccessPct: 75}, []Action{SkipDecision{}}},
		{"steal just over the threshold", nil, Decision{Kind: DecisionSteal, Base: 1, SuccessPct: 76}, []Action{StealAttempt{Base: 1, SuccessPct: 76}}},
		{"walk the batter", nil, Decision{Kind: DecisionIBB}, []Action{IntentionalWalk{}}},
		{"walk rather than steal", nil, Decision{Kind: DecisionIBBOrSteal, Base: 1, SuccessPct: 78}, []Action{IntentionalWalk{}}},
		{"early bunt skipped", nil, Decision{Kind: DecisionBunt}, []Action{SkipDecision{}}},
		{"late bunt when tied", late, Decision{Kind: DecisionBunt}, []Action{BuntAttempt{}}},
		{"no bunt with a lead", func(s *GameState) { s.Inning = 8; s.Score = [2]int{3, 1} }, Decision{Kind: DecisionBunt}, []Action{SkipDecision{}}},
		{"take on three-oh", nil, Decision{Kind: DecisionCount30}, []Action{SetOnePitchModifier{Modifier: ModifierTake}}},
		{"protect on oh-two", nil, Decision{Kind: DecisionCount02}, []Action{SetOnePitchModifier{Modifier: ModifierProtect}}},
		{"shift on", nil, Decision{Kind: DecisionDefensiveShift}, []Action{SetDefensiveShift{On: true}}},
		{
			"pinch hitter from the bench",
			func(s *GameState) { s.BattingOrder[Away] = 4 },
			Decision{Kind: DecisionPinchHitter},
			[]Action{
				MakeSubstitution{Team: Away, Kind: SubBatter, Slot: 4, PlayerID: "away-b1"},
				SetPinchHitterStrategy{Strategy: StrategyContact},
			},
		},
		{
			"pinch strategy with an empty bench",
			func(s *GameState) { s.Bench[Away] = nil },
			Decision{Kind: DecisionPinchHitter},
			[]Action{SetPinchHitterStrategy{Strategy: StrategyContact}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rosterState()
			if tt.setup != nil {
				tt.setup(&s)
			}
			got := AIManager{Team: Away}.Decide(s, tt.d)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decide = %#v, want %#v", got, tt.want)
			}
		})
	}
}
