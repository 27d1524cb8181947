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
	"encoding/json"
	"reflect"
	"testing"
)

func TestBackfillRoundTrip(t *testing.T) {
	r, _ := newTestReducer(script(t, 0.1))
	s := rosterState()
	s.Bases = [3]bool{true, false, false}
	s.Runners[0] = "away-9"
	s.PendingDecision = &Decision{Kind: DecisionSteal, Base: 0, SuccessPct: 70}
	s = mustDispatch(t, r, s, SkipDecision{})
	s = mustDispatch(t, r, s, Hit{HitType: HitDouble})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	got := Backfill(data)
	if !reflect.DeepEqual(got, s) {
		t.Errorf("Backfill(Marshal(s)) differs:\n got %+v\nwant %+v", got, s)
	}
}

func TestBackfillPartial(t *testing.T) {
	got := Backfill([]byte(`{"inning":4,"half":1,"score":[2,1],"teamNames":["Comets",""],"lineups":[["a","b"]]}`))
	if got.Inning != 4 || got.Half != Bottom || got.Score != [2]int{2, 1} {
		t.Errorf("scalar fields lost: %+v", got)
	}
	if got.TeamNames != [2]string{"Comets", "Home"} {
		t.Errorf("team names = %q", got.TeamNames)
	}
	if !reflect.DeepEqual(got.Lineups[Away], []string{"a", "b"}) || got.Lineups[Home] == nil {
		t.Errorf("lineups = %q", got.Lineups)
	}
	if got.Strategies != [2]Strategy{StrategyBalanced, StrategyBalanced} {
		t.Errorf("strategies = %q", got.Strategies)
	}
	if got.PlayLog == nil || got.DecisionLog == nil || got.PitcherRoles[Home] == nil {
		t.Error("collections left nil")
	}
	if got.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("schema version = %d", got.SchemaVersion)
	}
}

func TestBackfillCorruptFieldFallsBack(t *testing.T) {
	got := Backfill([]byte(`{"inning":"seventh","outs":2,"bases":null,"playLog":{"oops":1}}`))
	if got.Inning != 1 || got.Outs != 2 || got.Bases != [3]bool{} || len(got.PlayLog) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestBackfillGarbage(t *testing.T) {
	for _, input := range []string{"", "null", "[]", "{{", `"state"`} {
		got := Backfill([]byte(input))
		if !reflect.DeepEqual(got, NewState([2]string{})) {
			t.Errorf("Backfill(%q) = %+v, want a fresh state", input, got)
		}
	}
}

func TestBackfillRBIFromRuns(t *testing.T) {
	got := Backfill([]byte(`{"playLog":[{"inning":1,"half":0,"team":0,"batter":"a","slot":0,"event":"HR","runs":2}]}`))
	if len(got.PlayLog) != 1 || got.PlayLog[0].RBI == nil || *got.PlayLog[0].RBI != 2 {
		t.Errorf("play log = %+v", got.PlayLog)
	}
}

func TestBackfillIdempotent(t *testing.T) {
	once := BackfillState(GameState{Inning: 0})
	twice := BackfillState(once)
	if !reflect.DeepEqual(once, twice) {
		t.Error("BackfillState is not idempotent")
	}
}

func TestBackfillPullsScalarsIntoRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(GameState) bool
	}{
		{"half above bottom", `{"half":5}`, func(s GameState) bool { return s.Half == Top }},
		{"negative half", `{"half":-1}`, func(s GameState) bool { return s.Half == Top }},
		{"bottom half kept", `{"half":1}`, func(s GameState) bool { return s.Half == Bottom }},
		{"three outs", `{"outs":3}`, func(s GameState) bool { return s.Outs == 2 }},
		{"negative outs", `{"outs":-4}`, func(s GameState) bool { return s.Outs == 0 }},
		{"three strikes", `{"strikes":3}`, func(s GameState) bool { return s.Strikes == 2 }},
		{"four balls", `{"balls":4}`, func(s GameState) bool { return s.Balls == 3 }},
		{"negative balls", `{"balls":-1}`, func(s GameState) bool { return s.Balls == 0 }},
		{"negative score", `{"score":[-3,0]}`, func(s GameState) bool { return s.Score == [2]int{} }},
		{"negative pitch key", `{"pitchKey":-7}`, func(s GameState) bool { return s.PitchKey == 0 }},
		{
			"batting order past default lineup",
			`{"battingOrder":[9,-1]}`,
			func(s GameState) bool { return s.BattingOrder == [2]int{0, 0} },
		},
		{
			"batting order past short lineup",
			`{"battingOrder":[2,8],"lineups":[["a","b"],[]]}`,
			func(s GameState) bool { return s.BattingOrder == [2]int{0, 8} },
		},
		{
			"batting order in range kept",
			`{"battingOrder":[1,4],"lineups":[["a","b"],[]]}`,
			func(s GameState) bool { return s.BattingOrder == [2]int{1, 4} },
		},
		{
			"active pitcher without pitchers",
			`{"activePitcher":[3,-2]}`,
			func(s GameState) bool { return s.ActivePitcher == [2]int{0, 0} },
		},
		{
			"active pitcher past staff",
			`{"activePitcher":[1,2],"pitchers":[["p1","p2"],["q1","q2"]]}`,
			func(s GameState) bool { return s.ActivePitcher == [2]int{1, 0} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Backfill([]byte(tt.input))
			if !tt.check(got) {
				t.Errorf("Backfill(%s) = %+v", tt.input, got)
			}
			if vs := CheckInvariants(got); len(vs) != 0 {
				t.Errorf("invariants violated: %+v", vs)
			}
		})
	}
}

func TestBackfilledStateIsPlayable(t *testing.T) {
	inputs := []string{
		`{"half":5}`,
		`{"half":-1,"battingOrder":[40,40],"activePitcher":[9,9],"outs":7}`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			r, _ := newTestReducer(script(t))
			s := Backfill([]byte(input))
			next := mustDispatch(t, r, s, Hit{HitType: HitHomeRun})
			if next.Score[Away] != 1 {
				t.Errorf("score = %v, want the away side to score", next.Score)
			}
			if next.ActivePitcherID(Home) != "" {
				t.Errorf("pitcher = %q on an empty staff", next.ActivePitcherID(Home))
			}
		})
	}
}

func TestBackfillKeepsManagerChecks(t *testing.T) {
	got := Backfill([]byte(`{"pitchKey":12,"changeCheckedAt":12,"shiftCheckedAt":12,"decisionCheckedAt":11}`))
	if got.ChangeCheckedAt != 12 || got.ShiftCheckedAt != 12 || got.DecisionCheckedAt != 11 {
		t.Errorf("checks = %d %d %d", got.ChangeCheckedAt, got.ShiftCheckedAt, got.DecisionCheckedAt)
	}
	old := Backfill([]byte(`{"pitchKey":12}`))
	if old.ChangeCheckedAt != -1 || old.ShiftCheckedAt != -1 || old.DecisionCheckedAt != -1 {
		t.Errorf("older save checks = %d %d %d", old.ChangeCheckedAt, old.ShiftCheckedAt, old.DecisionCheckedAt)
	}
}
