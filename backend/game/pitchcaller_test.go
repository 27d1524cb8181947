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

func TestCallPitch(t *testing.T) {
	tests := []struct {
		name     string
		modifier OnePitchModifier
		draws    []float64
		want     Action
	}{
		{"take a fastball", ModifierNone, []float64{0.0, 0.5}, Wait{Strategy: StrategyBalanced, PitchType: PitchFastball}},
		{"swing and miss", ModifierNone, []float64{0.3, 0.1, 0.1}, Strike{Swung: true}},
		{"foul it off", ModifierNone, []float64{0.6, 0.1, 0.3}, Foul{}},
		{"in play", ModifierNone, []float64{0.9, 0.1, 0.9, 0.05}, Hit{HitType: HitHomeRun, Strategy: StrategyBalanced}},
		{"take never swings", ModifierTake, []float64{0.0, 0.0}, Wait{Strategy: StrategyBalanced, PitchType: PitchFastball}},
		{"swing always swings", ModifierSwing, []float64{0.0, 0.99, 0.1}, Strike{Swung: true}},
		{"protect swings more and misses less", ModifierProtect, []float64{0.0, 0.65, 0.15}, Foul{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := script(t, tt.draws...)
			s := rosterState()
			s.OnePitchModifier = tt.modifier
			got := CallPitch(s, src, StrategyBalanced)
			src.assertConsumed()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CallPitch = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestHitTypeFor(t *testing.T) {
	balanced := StrategyBalanced.profile()
	tests := []struct {
		roll float64
		want HitType
	}{
		{10, HitHomeRun},
		{65, HitTriple},
		{100, HitDouble},
		{500, HitSingle},
	}
	for _, tt := range tests {
		if got := hitTypeFor(tt.roll, balanced); got != tt.want {
			t.Errorf("hitTypeFor(%v) = %s, want %s", tt.roll, got, tt.want)
		}
	}
	if got := hitTypeFor(80, StrategyPower.profile()); got != HitHomeRun {
		t.Errorf("power hitter roll 80 = %s, want HR", got)
	}
}
