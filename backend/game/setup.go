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
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ModOverrides is a partial modifier bundle as written in a setup file.
// Nil fields take the neutral value.
type ModOverrides struct {
	Contact *float64 `json:"contact,omitempty" yaml:"contact,omitempty"`
	Power   *float64 `json:"power,omitempty" yaml:"power,omitempty"`
	Eye     *float64 `json:"eye,omitempty" yaml:"eye,omitempty"`
	Speed   *float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Control *float64 `json:"control,omitempty" yaml:"control,omitempty"`
	Stamina *float64 `json:"stamina,omitempty" yaml:"stamina,omitempty"`
}

// TeamSetup describes one team before the first pitch.
type TeamSetup struct {
	Name         string                  `json:"name" yaml:"name"`
	Strategy     Strategy                `json:"strategy" yaml:"strategy"`
	Lineup       []string                `json:"lineup" yaml:"lineup"`
	Positions    []string                `json:"positions" yaml:"positions"`
	Bench        []string                `json:"bench" yaml:"bench"`
	Pitchers     []string                `json:"pitchers" yaml:"pitchers"`
	PitcherRoles map[string]PitcherRole  `json:"pitcherRoles,omitempty" yaml:"pitcherRoles,omitempty"`
	Mods         map[string]ModOverrides `json:"mods,omitempty" yaml:"mods,omitempty"`
}

// Setup is everything needed to start a game besides the seed.
type Setup struct {
	Teams       [2]TeamSetup `json:"teams" yaml:"teams"`
	ManagedSide int          `json:"managedSide" yaml:"managedSide"`
	ManagerMode bool         `json:"managerMode" yaml:"managerMode"`
}

var defaultPositions = []string{"CF", "SS", "LF", "1B", "DH", "3B", "RF", "2B", "C"}

// DefaultTeamSetup builds a complete generic roster. prefix namespaces the
// player ids ("away-1", "away-b1", "away-p1").
func DefaultTeamSetup(name, prefix string) TeamSetup {
	t := TeamSetup{
		Name:         name,
		Strategy:     StrategyBalanced,
		Positions:    slices.Clone(defaultPositions),
		PitcherRoles: map[string]PitcherRole{},
	}
	for i := 1; i <= DefaultLineupSize; i++ {
		t.Lineup = append(t.Lineup, fmt.Sprintf("%s-%d", prefix, i))
	}
	for i := 1; i <= 4; i++ {
		t.Bench = append(t.Bench, fmt.Sprintf("%s-b%d", prefix, i))
	}
	roles := []PitcherRole{RoleStarter, RoleReliever, RoleReliever, RoleDual, RoleReliever, RoleStarter}
	for i, role := range roles {
		id := fmt.Sprintf("%s-p%d", prefix, i+1)
		t.Pitchers = append(t.Pitchers, id)
		t.PitcherRoles[id] = role
	}
	return t
}

// DefaultSetup is two generic teams with the AI managing both.
func DefaultSetup() Setup {
	return Setup{
		Teams: [2]TeamSetup{
			DefaultTeamSetup(FallbackTeamNames[Away], "away"),
			DefaultTeamSetup(FallbackTeamNames[Home], "home"),
		},
		ManagedSide: Away,
	}
}

// Normalize fills everything a partial setup leaves out: names, strategy,
// and any missing roster section from the generic roster.
func (s Setup) Normalize() Setup {
	prefixes := [2]string{"away", "home"}
	for i := range 2 {
		t := s.Teams[i]
		if t.Name == "" {
			t.Name = FallbackTeamNames[i]
		}
		if t.Strategy == "" {
			t.Strategy = StrategyBalanced
		}
		def := DefaultTeamSetup(t.Name, prefixes[i])
		if len(t.Lineup) == 0 {
			t.Lineup = def.Lineup
		}
		if len(t.Positions) != len(t.Lineup) {
			t.Positions = make([]string, len(t.Lineup))
			for j := range t.Positions {
				t.Positions[j] = defaultPositions[j%len(defaultPositions)]
			}
		}
		if t.Bench == nil {
			t.Bench = def.Bench
		}
		if len(t.Pitchers) == 0 {
			t.Pitchers = def.Pitchers
			t.PitcherRoles = def.PitcherRoles
		}
		if t.PitcherRoles == nil {
			t.PitcherRoles = map[string]PitcherRole{}
		}
		s.Teams[i] = t
	}
	return s
}

// ErrInvalidSetup wraps every setup validation failure.
var ErrInvalidSetup = errors.New("invalid setup")

// Validate checks a normalized setup.
func (s Setup) Validate() error {
	if s.ManagedSide != Away && s.ManagedSide != Home {
		return fmt.Errorf("%w: managed side %d", ErrInvalidSetup, s.ManagedSide)
	}
	for i, t := range s.Teams {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: team %d has no name", ErrInvalidSetup, i)
		}
		if !t.Strategy.Valid() {
			return fmt.Errorf("%w: team %q strategy %q", ErrInvalidSetup, t.Name, t.Strategy)
		}
		if len(t.Lineup) == 0 {
			return fmt.Errorf("%w: team %q has an empty lineup", ErrInvalidSetup, t.Name)
		}
		if len(t.Pitchers) == 0 {
			return fmt.Errorf("%w: team %q has no pitchers", ErrInvalidSetup, t.Name)
		}
		seen := map[string]bool{}
		for _, id := range slices.Concat(t.Lineup, t.Bench, t.Pitchers) {
			if id == "" || strings.ContainsAny(id, ":,") {
				return fmt.Errorf("%w: team %q player id %q", ErrInvalidSetup, t.Name, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: team %q lists %q twice", ErrInvalidSetup, t.Name, id)
			}
			seen[id] = true
		}
		for id, role := range t.PitcherRoles {
			switch role {
			case RoleStarter, RoleReliever, RoleDual:
			default:
				return fmt.Errorf("%w: pitcher %q role %q", ErrInvalidSetup, id, role)
			}
		}
	}
	return nil
}

// ResolveMods returns a fully populated modifier bundle for every player.
func ResolveMods(players []string, overrides map[string]ModOverrides) map[string]PlayerMods {
	out := make(map[string]PlayerMods, len(players))
	for _, id := range players {
		m := DefaultMods()
		if o, ok := overrides[id]; ok {
			apply := func(dst *float64, v *float64) {
				if v != nil && *v > 0 {
					*dst = *v
				}
			}
			apply(&m.Contact, o.Contact)
			apply(&m.Power, o.Power)
			apply(&m.Eye, o.Eye)
			apply(&m.Speed, o.Speed)
			apply(&m.Control, o.Control)
			apply(&m.Stamina, o.Stamina)
		}
		out[id] = m
	}
	return out
}

// ApplySetup loads rosters into s. Lineup order is recorded for the box
// score and the tiebreak runner; batter modifiers are resolved and stored
// but the pitch path only reads the pitcher's.
func ApplySetup(s GameState, setup Setup) GameState {
	setup = setup.Normalize()
	for i, t := range setup.Teams {
		s.TeamNames[i] = t.Name
		s.Strategies[i] = t.Strategy
		s.Lineups[i] = slices.Clone(t.Lineup)
		s.Positions[i] = slices.Clone(t.Positions)
		s.Bench[i] = slices.Clone(t.Bench)
		s.Pitchers[i] = slices.Clone(t.Pitchers)
		s.PitcherRoles[i] = maps.Clone(t.PitcherRoles)
		s.PlayerMods[i] = ResolveMods(slices.Concat(t.Lineup, t.Bench, t.Pitchers), t.Mods)
		s.ActivePitcher[i] = 0
		s.BattingOrder[i] = 0
	}
	return s
}

// substitute applies a lineup or pitching change. A player who has left the
// game may not come back.
func (r *Reducer) substitute(s *GameState, a MakeSubstitution) {
	if a.Team != Away && a.Team != Home {
		r.log.Warn().Int("team", a.Team).Msg("substitution for unknown team")
		return
	}
	team := a.Team
	switch a.Kind {
	case SubBatter:
		if a.Slot < 0 || a.Slot >= len(s.Lineups[team]) {
			r.log.Warn().Int("slot", a.Slot).Msg("substitution into a lineup slot that does not exist")
			return
		}
		if slices.Contains(s.SubstitutedOut[team], a.PlayerID) {
			r.log.Warn().Str("player", a.PlayerID).Msg("substitution rejected: player already left the game")
			return
		}
		bi := slices.Index(s.Bench[team], a.PlayerID)
		if bi < 0 {
			r.log.Warn().Str("player", a.PlayerID).Msg("substitution rejected: player not on the bench")
			return
		}
		out := s.Lineups[team][a.Slot]
		s.Lineups[team][a.Slot] = a.PlayerID
		s.Bench[team] = slices.Delete(s.Bench[team], bi, bi+1)
		s.SubstitutedOut[team] = append(s.SubstitutedOut[team], out)
		s.DecisionLog = append(s.DecisionLog, fmt.Sprintf("%d:sub:%d:%d:%s", s.PitchKey, team, a.Slot, a.PlayerID))

	case SubPitcher:
		idx := a.PitcherIndex
		if idx < 0 || idx >= len(s.Pitchers[team]) || idx == s.ActivePitcher[team] {
			r.log.Warn().Int("pitcherIndex", idx).Msg("pitching change to an invalid staff slot")
			return
		}
		if slices.Contains(s.SubstitutedOut[team], s.Pitchers[team][idx]) {
			r.log.Warn().Str("player", s.Pitchers[team][idx]).Msg("pitching change rejected: pitcher already left the game")
			return
		}
		s.SubstitutedOut[team] = append(s.SubstitutedOut[team], s.ActivePitcherID(team))
		s.ActivePitcher[team] = idx
		s.BattersFaced[team] = 0
		s.DecisionLog = append(s.DecisionLog, fmt.Sprintf("%d:pitcher:%d:%d", s.PitchKey, team, idx))

	default:
		r.log.Warn().Str("kind", string(a.Kind)).Msg("unknown substitution kind")
	}
}
