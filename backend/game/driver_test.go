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
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/ttbt-io/pitchbypitch/backend/rng"
)

const maxTestSteps = 20000

func playGame(t *testing.T, seed uint32, setup Setup, managerMode bool, human Manager) (GameState, []Violation) {
	t.Helper()
	on := true
	r := NewReducer(rng.New(seed), Options{CheckInvariants: &on, Seed: seed})
	d := NewDriver(r, ApplySetup(NewState([2]string{}), setup), managerMode, setup.ManagedSide, human)
	var violations []Violation
	lastPA := 0
	d.OnTransition = func(s GameState) {
		violations = append(violations, CheckInvariants(s)...)
		pa := len(s.PlayLog) + len(s.OutLog)
		if pa < lastPA {
			violations = append(violations, Violation{Rule: "plate_appearances", Detail: "count went down"})
		}
		lastPA = pa
	}
	final, err := d.PlayToEnd(maxTestSteps)
	if err != nil {
		t.Fatalf("seed %d: PlayToEnd: %v", seed, err)
	}
	return final, violations
}

func TestFullGameProperties(t *testing.T) {
	for _, seed := range []uint32{1, 7, 42, 1234, 99999} {
		final, violations := playGame(t, seed, DefaultSetup(), false, nil)
		if len(violations) != 0 {
			t.Errorf("seed %d: violations %+v", seed, violations)
		}
		if !final.GameOver {
			t.Fatalf("seed %d: game not over", seed)
		}
		if final.Inning < RegulationInnings {
			t.Errorf("seed %d: ended in inning %d", seed, final.Inning)
		}
		if final.Score[Away] == final.Score[Home] {
			t.Errorf("seed %d: finished tied %v", seed, final.Score)
		}
		box := ComputeBoxScore(final)
		for team, tb := range box.Teams {
			if tb.Runs != final.Score[team] {
				t.Errorf("seed %d team %d: box runs %d, score %d", seed, team, tb.Runs, final.Score[team])
			}
			for i, l := range tb.Batting {
				if l.AB != l.PA-l.BB || l.K > l.AB || l.H > l.AB {
					t.Errorf("seed %d team %d: inconsistent line %+v", seed, team, l)
				}
				if i > 0 && (l.PA > tb.Batting[i-1].PA || tb.Batting[0].PA-l.PA > 1) {
					t.Errorf("seed %d team %d: slot %d has %d PA after %d", seed, team, i, l.PA, tb.Batting[i-1].PA)
				}
			}
		}
	}
}

func TestSameSeedSameGame(t *testing.T) {
	a, _ := playGame(t, 2024, DefaultSetup(), false, nil)
	b, _ := playGame(t, 2024, DefaultSetup(), false, nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("two games from one seed diverged")
	}
}

func TestSeedsProduceDifferentGames(t *testing.T) {
	base, _ := playGame(t, 1, DefaultSetup(), false, nil)
	for seed := uint32(2); seed <= 6; seed++ {
		other, _ := playGame(t, seed, DefaultSetup(), false, nil)
		if !reflect.DeepEqual(base.PlayLog, other.PlayLog) {
			return
		}
	}
	t.Error("six seeds produced identical play logs")
}

func TestLineupOrderDoesNotChangeOutcome(t *testing.T) {
	setup := DefaultSetup()
	a, _ := playGame(t, 77, setup, false, nil)

	reordered := DefaultSetup()
	slices.Reverse(reordered.Teams[Away].Lineup)
	b, _ := playGame(t, 77, reordered, false, nil)

	if a.Score != b.Score || !reflect.DeepEqual(a.InningRuns, b.InningRuns) {
		t.Errorf("score %v vs %v after reordering the lineup", a.Score, b.Score)
	}
}

func TestManagedGameReplaysFromDecisionLog(t *testing.T) {
	setup := DefaultSetup()
	setup.ManagerMode = true
	setup.ManagedSide = Away
	setup.Teams[Away].Strategy = StrategyAggressive

	for _, seed := range []uint32{3, 11, 500} {
		played, violations := playGame(t, seed, setup, true, AIManager{Team: Away})
		if len(violations) != 0 {
			t.Errorf("seed %d: violations %+v", seed, violations)
		}
		if len(played.DecisionLog) == 0 {
			t.Errorf("seed %d: no decisions logged", seed)
		}
		replayed, _ := playGame(t, seed, setup, true, NewLogManager(Away, played.DecisionLog))
		if !reflect.DeepEqual(played, replayed) {
			t.Errorf("seed %d: replay diverged: score %v vs %v, log %d vs %d entries",
				seed, played.Score, replayed.Score, len(played.DecisionLog), len(replayed.DecisionLog))
		}
	}
}

func TestDriverAwaitsHumanDecision(t *testing.T) {
	on := true
	r := NewReducer(script(t), Options{CheckInvariants: &on})
	s := rosterState()
	s.Balls = 3
	d := NewDriver(r, s, true, Away, nil)

	res, err := d.Step()
	if err != nil || res != StepManaged {
		t.Fatalf("Step = %v, %v", res, err)
	}
	if d.State.PendingDecision == nil || d.State.PendingDecision.Kind != DecisionCount30 {
		t.Fatalf("pending = %+v", d.State.PendingDecision)
	}
	res, err = d.Step()
	if err != nil || res != StepAwaitingDecision {
		t.Fatalf("second Step = %v, %v", res, err)
	}
	if _, err := d.PlayToEnd(10); !errors.Is(err, ErrAwaitingDecision) {
		t.Errorf("PlayToEnd err = %v", err)
	}

	if err := d.Dispatch(SetOnePitchModifier{Modifier: ModifierTake}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.State.DecisionLog, []string{"0:take"}) {
		t.Errorf("decision log = %q", d.State.DecisionLog)
	}
}

func TestRestoredDriverKeepsResolvedDecision(t *testing.T) {
	on := true
	r := NewReducer(script(t), Options{CheckInvariants: &on})
	s := rosterState()
	s.Balls = 3
	d := NewDriver(r, s, true, Away, nil)
	if res, err := d.Step(); err != nil || res != StepManaged {
		t.Fatalf("Step = %v, %v", res, err)
	}
	if err := d.Dispatch(SetOnePitchModifier{Modifier: ModifierTake}); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(d.State)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name      string
		state     GameState
		wantOffer bool
	}{
		{"restored save", Backfill(data), false},
		{"save without checks", func() GameState {
			st := Backfill(data)
			st.ChangeCheckedAt, st.ShiftCheckedAt, st.DecisionCheckedAt = -1, -1, -1
			return st
		}(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restored := NewDriver(r, tt.state, true, Away, nil)
			done, err := restored.manage()
			if err != nil {
				t.Fatal(err)
			}
			offered := restored.State.PendingDecision != nil
			if done != tt.wantOffer || offered != tt.wantOffer {
				t.Errorf("manage = %v, pending %+v, want offer %v", done, restored.State.PendingDecision, tt.wantOffer)
			}
			if !reflect.DeepEqual(restored.State.DecisionLog, []string{"0:take"}) {
				t.Errorf("decision log = %q", restored.State.DecisionLog)
			}
		})
	}
}

func TestDriverAIDecisionsAreNotLogged(t *testing.T) {
	on := true
	r := NewReducer(script(t), Options{CheckInvariants: &on})
	s := rosterState()
	s.Half = Bottom
	s.Balls = 3
	d := NewDriver(r, s, true, Away, nil)

	// Home bats, so its 3-0 take is applied without a prompt.
	if done, err := d.manage(); err != nil || done {
		t.Fatalf("manage = %v, %v", done, err)
	}
	if d.State.OnePitchModifier != ModifierTake || d.State.PendingDecision != nil {
		t.Errorf("modifier %q pending %+v", d.State.OnePitchModifier, d.State.PendingDecision)
	}
	if len(d.State.DecisionLog) != 0 {
		t.Errorf("decision log = %q", d.State.DecisionLog)
	}
}

func TestDriverStepLimit(t *testing.T) {
	r := NewReducer(rng.New(5), Options{})
	d := NewDriver(r, rosterState(), false, Away, nil)
	if _, err := d.PlayToEnd(3); !errors.Is(err, ErrStepLimit) {
		t.Errorf("err = %v, want ErrStepLimit", err)
	}
}

func TestLogManagerFiltersOtherTeam(t *testing.T) {
	m := NewLogManager(Away, []string{"4:pitcher:1:2", "4:pitcher:0:3", "4:take", "junk"})
	s := rosterState()
	s.PitchKey = 4

	sub, ok := m.PitchingChange(s)
	if !ok || sub.Team != Away || sub.PitcherIndex != 3 {
		t.Fatalf("PitchingChange = %+v, %v", sub, ok)
	}
	if _, ok := m.PitchingChange(s); ok {
		t.Error("pitching change replayed twice")
	}
	if got := m.Decide(s, Decision{Kind: DecisionCount30}); !reflect.DeepEqual(got, []Action{SetOnePitchModifier{Modifier: ModifierTake}}) {
		t.Errorf("Decide = %#v", got)
	}
	if got := m.Decide(s, Decision{Kind: DecisionCount30}); !reflect.DeepEqual(got, []Action{SkipDecision{}}) {
		t.Errorf("exhausted Decide = %#v", got)
	}
}
