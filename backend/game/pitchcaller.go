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

const (
	baseSwingChance   = 480.0
	protectSwingFloor = 700.0
	baseWhiffChance   = 220.0
	protectWhiffScale = 0.6
	foulChance        = 260.0
	homeRunShare      = 60.0
	tripleShare       = 12.0
	doubleShare       = 150.0
)

// CallPitch draws the next primitive event for the batter at the plate:
// the pitch type, swing or take, then the result of any swing.
func CallPitch(s GameState, src Source, strategy Strategy) Action {
	prof := strategy.profile()
	pitch := pitchMix[int(src.Next()*float64(len(pitchMix)))%len(pitchMix)]

	swing := baseSwingChance * prof.swing
	whiff := baseWhiffChance * prof.strikeout
	switch s.OnePitchModifier {
	case ModifierTake:
		swing = 0
	case ModifierSwing:
		swing = 1000
	case ModifierProtect:
		swing = max(swing, protectSwingFloor)
		whiff *= protectWhiffScale
	}
	if src.Next()*1000 >= swing {
		return Wait{Strategy: strategy, PitchType: pitch}
	}

	outcome := src.Next() * 1000
	switch {
	case outcome < whiff:
		return Strike{Swung: true}
	case outcome < whiff+foulChance:
		return Foul{}
	}
	return Hit{HitType: hitTypeFor(src.Next()*1000, prof), Strategy: strategy}
}

func hitTypeFor(roll float64, prof strategyProfile) HitType {
	hr := homeRunShare * prof.homeRun
	switch {
	case roll < hr:
		return HitHomeRun
	case roll < hr+tripleShare:
		return HitTriple
	case roll < hr+tripleShare+doubleShare:
		return HitDouble
	}
	return HitSingle
}
