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
	"strings"

	"github.com/shopspring/decimal"
)

// BattingLine is one lineup slot's totals. Everyone who batted in the slot
// is credited to it.
type BattingLine struct {
	Slot   int    `json:"slot"`
	Player string `json:"player"`
	PA     int    `json:"pa"`
	AB     int    `json:"ab"`
	H      int    `json:"h"`
	BB     int    `json:"bb"`
	K      int    `json:"k"`
	RBI    int    `json:"rbi"`
	AVG    string `json:"avg"`
	OBP    string `json:"obp"`
}

// TeamBox is one team's side of the box score.
type TeamBox struct {
	Name      string        `json:"name"`
	Runs      int           `json:"runs"`
	Hits      int           `json:"hits"`
	LineScore []int         `json:"lineScore"`
	Batting   []BattingLine `json:"batting"`
}

// BoxScore summarizes a game from its logs.
type BoxScore struct {
	Teams [2]TeamBox `json:"teams"`
}

// ComputeBoxScore builds the box score for s. AB is PA minus walks.
func ComputeBoxScore(s GameState) BoxScore {
	var box BoxScore
	for team := range 2 {
		n := s.lineupSize(team)
		lines := make([]BattingLine, n)
		for i := range lines {
			lines[i].Slot = i
			if i < len(s.Lineups[team]) {
				lines[i].Player = s.Lineups[team][i]
			}
		}
		line := func(slot int) *BattingLine {
			if slot < 0 || slot >= n {
				return nil
			}
			return &lines[slot]
		}

		tb := TeamBox{
			Name:      s.TeamNames[team],
			Runs:      s.Score[team],
			LineScore: append([]int(nil), s.InningRuns[team]...),
		}
		for _, e := range s.PlayLog {
			l := line(e.Slot)
			if e.Team != team || l == nil {
				continue
			}
			l.PA++
			if e.Event == HitWalk {
				l.BB++
			} else {
				l.H++
				tb.Hits++
			}
			if e.RBI != nil {
				l.RBI += *e.RBI
			} else {
				l.RBI += e.Runs
			}
		}
		for _, e := range s.OutLog {
			if l := line(e.Slot); e.Team == team && l != nil {
				l.PA++
			}
		}
		for _, e := range s.StrikeoutLog {
			if l := line(e.Slot); e.Team == team && l != nil {
				l.K++
			}
		}
		for i := range lines {
			l := &lines[i]
			l.AB = l.PA - l.BB
			l.AVG = rate(l.H, l.AB)
			l.OBP = rate(l.H+l.BB, l.PA)
		}
		tb.Batting = lines
		box.Teams[team] = tb
	}
	return box
}

// rate renders num/den the way a scorecard does: ".333", "1.000".
func rate(num, den int) string {
	if den == 0 {
		return ".000"
	}
	v := decimal.NewFromInt(int64(num)).DivRound(decimal.NewFromInt(int64(den)), 3).StringFixed(3)
	return strings.TrimPrefix(v, "0")
}
