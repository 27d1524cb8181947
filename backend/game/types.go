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

import "math"

// Team indexes into every per-team array of a GameState.
const (
	Away = 0
	Home = 1
)

// Half is the half of the inning. Its value is also the index of the batting team.
type Half int

const (
	Top    Half = 0
	Bottom Half = 1
)

func (h Half) String() string {
	if h == Bottom {
		return "bottom"
	}
	return "top"
}

// HitType tags the outcome handed to the baserunning resolver.
type HitType string

const (
	HitSingle  HitType = "1B"
	HitDouble  HitType = "2B"
	HitTriple  HitType = "3B"
	HitHomeRun HitType = "HR"
	HitWalk    HitType = "BB"
)

// Valid reports whether h is one of the known hit types.
func (h HitType) Valid() bool {
	switch h {
	case HitSingle, HitDouble, HitTriple, HitHomeRun, HitWalk:
		return true
	}
	return false
}

// Strategy is a team's (or a pinch hitter's) offensive approach.
type Strategy string

const (
	StrategyBalanced   Strategy = "balanced"
	StrategyAggressive Strategy = "aggressive"
	StrategyPatient    Strategy = "patient"
	StrategyContact    Strategy = "contact"
	StrategyPower      Strategy = "power"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	_, ok := strategyProfiles[s]
	return ok
}

type strategyProfile struct {
	walk      float64
	strikeout float64
	homeRun   float64
	contact   float64
	steal     float64
	swing     float64
}

var strategyProfiles = map[Strategy]strategyProfile{
	StrategyBalanced:   {walk: 1.0, strikeout: 1.0, homeRun: 1.0, contact: 1.0, steal: 1.0, swing: 1.0},
	StrategyAggressive: {walk: 0.8, strikeout: 1.1, homeRun: 1.1, contact: 1.0, steal: 1.3, swing: 1.2},
	StrategyPatient:    {walk: 1.4, strikeout: 0.8, homeRun: 0.9, contact: 1.0, steal: 0.7, swing: 0.75},
	StrategyContact:    {walk: 1.0, strikeout: 0.7, homeRun: 0.7, contact: 1.15, steal: 1.0, swing: 1.05},
	StrategyPower:      {walk: 0.9, strikeout: 1.3, homeRun: 1.6, contact: 0.9, steal: 0.8, swing: 1.1},
}

// profile returns the factors for s. Unknown strategies play balanced.
func (s Strategy) profile() strategyProfile {
	if p, ok := strategyProfiles[s]; ok {
		return p
	}
	return strategyProfiles[StrategyBalanced]
}

// OnePitchModifier applies to exactly the next pitch and is then consumed.
type OnePitchModifier string

const (
	ModifierNone    OnePitchModifier = ""
	ModifierTake    OnePitchModifier = "take"
	ModifierSwing   OnePitchModifier = "swing"
	ModifierProtect OnePitchModifier = "protect"
	ModifierNormal  OnePitchModifier = "normal"
)

// Valid reports whether m is a settable modifier.
func (m OnePitchModifier) Valid() bool {
	switch m {
	case ModifierTake, ModifierSwing, ModifierProtect, ModifierNormal:
		return true
	}
	return false
}

// PitchType only matters for called pitches, through its strike-zone factor.
type PitchType string

const (
	PitchFastball  PitchType = "fastball"
	PitchSlider    PitchType = "slider"
	PitchCurveball PitchType = "curveball"
	PitchChangeup  PitchType = "changeup"
)

var pitchMix = []PitchType{PitchFastball, PitchSlider, PitchCurveball, PitchChangeup}

func (p PitchType) zone() float64 {
	switch p {
	case PitchFastball:
		return 1.1
	case PitchSlider:
		return 0.95
	case PitchCurveball:
		return 0.9
	}
	return 1.0
}

// Valid reports whether p is a known pitch type. The empty value is allowed
// and treated as a changeup-neutral zone.
func (p PitchType) Valid() bool {
	switch p {
	case "", PitchFastball, PitchSlider, PitchCurveball, PitchChangeup:
		return true
	}
	return false
}

// PitcherRole drives the AI bullpen search order.
type PitcherRole string

const (
	RoleStarter  PitcherRole = "starter"
	RoleReliever PitcherRole = "reliever"
	RoleDual     PitcherRole = "dual"
)

// PlayerMods is the fully resolved modifier bundle for one player. Every
// field is populated at setup time.
type PlayerMods struct {
	Contact float64 `json:"contact"`
	Power   float64 `json:"power"`
	Eye     float64 `json:"eye"`
	Speed   float64 `json:"speed"`
	Control float64 `json:"control"`
	Stamina float64 `json:"stamina"`
}

// DefaultMods is the neutral bundle.
func DefaultMods() PlayerMods {
	return PlayerMods{Contact: 1, Power: 1, Eye: 1, Speed: 1, Control: 1, Stamina: 1}
}

// OutKind tags an out-log entry.
type OutKind string

const (
	OutStrikeout      OutKind = "K"
	OutPop            OutKind = "pop"
	OutGround         OutKind = "ground"
	OutDoublePlay     OutKind = "dp"
	OutFieldersChoice OutKind = "fc"
	OutSacrifice      OutKind = "sac"
	OutBuntPop        OutKind = "bunt_pop"
)

// PlayLogEntry records one hit or walk.
type PlayLogEntry struct {
	Inning int     `json:"inning"`
	Half   Half    `json:"half"`
	Team   int     `json:"team"`
	Batter string  `json:"batter"`
	Slot   int     `json:"slot"`
	Event  HitType `json:"event"`
	Runs   int     `json:"runs"`
	RBI    *int    `json:"rbi,omitempty"`
}

// StrikeoutEntry records one strikeout.
type StrikeoutEntry struct {
	Inning   int    `json:"inning"`
	Half     Half   `json:"half"`
	Team     int    `json:"team"`
	Batter   string `json:"batter"`
	Slot     int    `json:"slot"`
	Swinging bool   `json:"swinging"`
}

// OutEntry records the end of a plate appearance that did not put the
// batter on base with a hit or walk.
type OutEntry struct {
	Inning int     `json:"inning"`
	Half   Half    `json:"half"`
	Team   int     `json:"team"`
	Batter string  `json:"batter"`
	Slot   int     `json:"slot"`
	Kind   OutKind `json:"kind"`
}

// Source is the generator every probabilistic outcome draws from.
type Source interface {
	Next() float64
}

// Announcer receives play-by-play notices. Playback is someone else's job.
type Announcer interface {
	Announce(message string)
}

func roundPct(v float64) int {
	return int(math.Round(v))
}
