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
	"errors"
	"testing"
)

func TestSetupValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Setup)
		wantErr bool
	}{
		{"default", func(s *Setup) {}, false},
		{"managed side", func(s *Setup) { s.ManagedSide = 2 }, true},
		{"blank name", func(s *Setup) { s.Teams[Home].Name = "  " }, true},
		{"unknown strategy", func(s *Setup) { s.Teams[Away].Strategy = "reckless" }, true},
		{"empty lineup", func(s *Setup) { s.Teams[Away].Lineup = nil }, true},
		{"no pitchers", func(s *Setup) { s.Teams[Home].Pitchers = nil }, true},
		{"colon in id", func(s *Setup) { s.Teams[Away].Lineup[0] = "a:b" }, true},
		{"comma in id", func(s *Setup) { s.Teams[Home].Bench[1] = "b,2" }, true},
		{"duplicate id", func(s *Setup) { s.Teams[Away].Bench[0] = "away-1" }, true},
		{"bad role", func(s *Setup) { s.Teams[Home].PitcherRoles["home-p1"] = "closer" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSetup()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSetup) {
				t.Errorf("error %v does not wrap ErrInvalidSetup", err)
			}
		})
	}
}

func TestSetupNormalize(t *testing.T) {
	var s Setup
	s.Teams[Home].Lineup = []string{"h1", "h2", "h3"}
	n := s.Normalize()
	if err := n.Validate(); err != nil {
		t.Fatalf("normalized setup invalid: %v", err)
	}
	if n.Teams[Away].Name != "Away" || len(n.Teams[Away].Lineup) != DefaultLineupSize {
		t.Errorf("away = %+v", n.Teams[Away])
	}
	if len(n.Teams[Home].Positions) != 3 || len(n.Teams[Home].Pitchers) == 0 {
		t.Errorf("home = %+v", n.Teams[Home])
	}
}

func TestResolveMods(t *testing.T) {
	control := 0.8
	zero := 0.0
	mods := ResolveMods([]string{"p1", "p2"}, map[string]ModOverrides{
		"p1":    {Control: &control, Power: &zero},
		"ghost": {Control: &control},
	})
	if len(mods) != 2 {
		t.Fatalf("mods = %+v", mods)
	}
	if mods["p1"].Control != 0.8 || mods["p1"].Power != 1 {
		t.Errorf("p1 = %+v", mods["p1"])
	}
	if mods["p2"] != DefaultMods() {
		t.Errorf("p2 = %+v", mods["p2"])
	}
}

func TestApplySetupShortLineup(t *testing.T) {
	setup := DefaultSetup()
	setup.Teams[Home].Lineup = []string{"h1", "h2", "h3"}
	s := ApplySetup(NewState([2]string{}), setup)
	s.Half = Bottom
	r, _ := newTestReducer(script(t))
	for range 3 {
		s = mustDispatch(t, r, s, Hit{HitType: HitHomeRun})
	}
	if s.BattingOrder[Home] != 0 {
		t.Errorf("batting order = %d, want wrap to 0", s.BattingOrder[Home])
	}
}
