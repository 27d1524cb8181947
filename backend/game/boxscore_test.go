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

import "testing"

func TestRate(t *testing.T) {
	tests := []struct {
		num, den int
		want     string
	}{
		{1, 3, ".333"},
		{2, 3, ".667"},
		{3, 3, "1.000"},
		{0, 4, ".000"},
		{0, 0, ".000"},
	}
	for _, tt := range tests {
		if got := rate(tt.num, tt.den); got != tt.want {
			t.Errorf("rate(%d, %d) = %q, want %q", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestComputeBoxScore(t *testing.T) {
	s := rosterState()
	rbi := func(n int) *int { return &n }
	s.Score = [2]int{3, 0}
	s.InningRuns = [2][]int{{0, 3}, {}}
	s.PlayLog = []PlayLogEntry{
		{Inning: 1, Team: Away, Batter: "away-1", Slot: 0, Event: HitSingle},
		{Inning: 1, Team: Away, Batter: "away-2", Slot: 1, Event: HitWalk},
		{Inning: 2, Team: Away, Batter: "away-1", Slot: 0, Event: HitHomeRun, Runs: 3, RBI: rbi(3)},
		{Inning: 1, Half: Bottom, Team: Home, Batter: "home-1", Slot: 0, Event: HitDouble},
	}
	s.OutLog = []OutEntry{
		{Inning: 1, Team: Away, Batter: "away-1", Slot: 0, Kind: OutStrikeout},
		{Inning: 1, Team: Away, Batter: "away-3", Slot: 2, Kind: OutGround},
	}
	s.StrikeoutLog = []StrikeoutEntry{{Inning: 1, Team: Away, Batter: "away-1", Slot: 0}}

	box := ComputeBoxScore(s)
	away := box.Teams[Away]
	if away.Name != "Away" || away.Runs != 3 || away.Hits != 2 {
		t.Errorf("away totals = %+v", away)
	}
	lead := away.Batting[0]
	if lead.PA != 3 || lead.AB != 3 || lead.H != 2 || lead.K != 1 || lead.RBI != 3 {
		t.Errorf("leadoff line = %+v", lead)
	}
	if lead.AVG != ".667" || lead.OBP != ".667" {
		t.Errorf("leadoff rates = %s / %s", lead.AVG, lead.OBP)
	}
	second := away.Batting[1]
	if second.PA != 1 || second.AB != 0 || second.BB != 1 || second.AVG != ".000" || second.OBP != "1.000" {
		t.Errorf("second line = %+v", second)
	}
	if got := box.Teams[Home].Hits; got != 1 {
		t.Errorf("home hits = %d", got)
	}
	if len(away.LineScore) != 2 || away.LineScore[1] != 3 {
		t.Errorf("line score = %v", away.LineScore)
	}
}
