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
	"fmt"
	"strconv"
	"strings"
)

// DecisionEntry is one parsed decision-log line.
type DecisionEntry struct {
	PitchKey int
	// Team is set for substitution entries, which both sides write. It is
	// -1 for decision resolutions.
	Team   int
	Action Action
}

// EncodeDecision renders the action that resolved a decision as a log
// entry, e.g. "5:steal:0:78". Actions that never resolve a decision return false.
func EncodeDecision(pitchKey int, a Action) (string, bool) {
	var body string
	switch a := a.(type) {
	case StealAttempt:
		body = fmt.Sprintf("steal:%d:%d", a.Base, a.SuccessPct)
	case BuntAttempt:
		body = "bunt"
	case IntentionalWalk:
		body = "ibb"
	case SetOnePitchModifier:
		if !a.Modifier.Valid() {
			return "", false
		}
		body = string(a.Modifier)
	case SetPinchHitterStrategy:
		body = "pinch:" + string(a.Strategy)
	case SetDefensiveShift:
		body = "shift:off"
		if a.On {
			body = "shift:on"
		}
	case SkipDecision:
		body = "skip"
	default:
		return "", false
	}
	return strconv.Itoa(pitchKey) + ":" + body, true
}

// ParseDecisionEntry parses one log line. Malformed lines return false.
func ParseDecisionEntry(line string) (DecisionEntry, bool) {
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return DecisionEntry{}, false
	}
	pk, err := strconv.Atoi(parts[0])
	if err != nil || pk < 0 {
		return DecisionEntry{}, false
	}
	e := DecisionEntry{PitchKey: pk, Team: -1}
	args := parts[2:]

	switch parts[1] {
	case "steal":
		if len(args) != 2 {
			return DecisionEntry{}, false
		}
		base, err1 := strconv.Atoi(args[0])
		pct, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || base < 0 || base > 1 || pct < 0 || pct > 100 {
			return DecisionEntry{}, false
		}
		e.Action = StealAttempt{Base: base, SuccessPct: pct}
	case "bunt", "ibb", "skip", "take", "swing", "protect", "normal":
		if len(args) != 0 {
			return DecisionEntry{}, false
		}
		e.Action = bareDecisions[parts[1]]
	case "pinch":
		if len(args) != 1 || !Strategy(args[0]).Valid() {
			return DecisionEntry{}, false
		}
		e.Action = SetPinchHitterStrategy{Strategy: Strategy(args[0])}
	case "shift":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return DecisionEntry{}, false
		}
		e.Action = SetDefensiveShift{On: args[0] == "on"}
	case "sub":
		if len(args) != 3 {
			return DecisionEntry{}, false
		}
		team, err1 := strconv.Atoi(args[0])
		slot, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || (team != Away && team != Home) || slot < 0 || args[2] == "" {
			return DecisionEntry{}, false
		}
		e.Team = team
		e.Action = MakeSubstitution{Team: team, Kind: SubBatter, Slot: slot, PlayerID: args[2]}
	case "pitcher":
		if len(args) != 2 {
			return DecisionEntry{}, false
		}
		team, err1 := strconv.Atoi(args[0])
		idx, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil || (team != Away && team != Home) || idx < 0 {
			return DecisionEntry{}, false
		}
		e.Team = team
		e.Action = MakeSubstitution{Team: team, Kind: SubPitcher, PitcherIndex: idx}
	default:
		return DecisionEntry{}, false
	}
	return e, true
}

var bareDecisions = map[string]Action{
	"bunt":    BuntAttempt{},
	"ibb":     IntentionalWalk{},
	"skip":    SkipDecision{},
	"take":    SetOnePitchModifier{Modifier: ModifierTake},
	"swing":   SetOnePitchModifier{Modifier: ModifierSwing},
	"protect": SetOnePitchModifier{Modifier: ModifierProtect},
	"normal":  SetOnePitchModifier{Modifier: ModifierNormal},
}

// ParseDecisionLog parses every well-formed entry and skips the rest.
func ParseDecisionLog(lines []string) []DecisionEntry {
	entries := make([]DecisionEntry, 0, len(lines))
	for _, line := range lines {
		if e, ok := ParseDecisionEntry(line); ok {
			entries = append(entries, e)
		}
	}
	return entries
}
