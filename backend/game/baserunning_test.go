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
	"slices"
	"testing"
)

func TestAdvance(t *testing.T) {
	runners := [3]string{"r1", "r2", "r3"}
	tests := []struct {
		name        string
		hit         HitType
		bases       [3]bool
		wantBases   [3]bool
		wantRunners [3]string
		wantRuns    int
	}{
		{"home run bases loaded", HitHomeRun, [3]bool{true, true, true}, [3]bool{}, [3]string{}, 4},
		{"home run bases empty", HitHomeRun, [3]bool{}, [3]bool{}, [3]string{}, 1},
		{"triple clears the bases", HitTriple, [3]bool{true, false, true}, [3]bool{false, false, true}, [3]string{"", "", "bat"}, 2},
		{"double with runner on first", HitDouble, [3]bool{true, false, false}, [3]bool{false, true, true}, [3]string{"", "bat", "r1"}, 0},
		{"double scores second and third", HitDouble, [3]bool{false, true, true}, [3]bool{false, true, false}, [3]string{"", "bat", ""}, 2},
		{"single bases loaded", HitSingle, [3]bool{true, true, true}, [3]bool{true, true, true}, [3]string{"bat", "r1", "r2"}, 1},
		{"single runner on second", HitSingle, [3]bool{false, true, false}, [3]bool{true, false, true}, [3]string{"bat", "", "r2"}, 0},
		{"walk runner only on third", HitWalk, [3]bool{false, false, true}, [3]bool{true, false, true}, [3]string{"bat", "", "r3"}, 0},
		{"walk first and third", HitWalk, [3]bool{true, false, true}, [3]bool{true, true, true}, [3]string{"bat", "r1", "r3"}, 0},
		{"walk runner on second", HitWalk, [3]bool{false, true, false}, [3]bool{true, true, false}, [3]string{"bat", "r2", ""}, 0},
		{"walk bases loaded", HitWalk, [3]bool{true, true, true}, [3]bool{true, true, true}, [3]string{"bat", "r1", "r2"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids [3]string
			for i, on := range tt.bases {
				if on {
					ids[i] = runners[i]
				}
			}
			got, err := Advance(tt.hit, tt.bases, ids, "bat")
			if err != nil {
				t.Fatalf("Advance failed: %v", err)
			}
			if got.Bases != tt.wantBases {
				t.Errorf("bases = %v, want %v", got.Bases, tt.wantBases)
			}
			if got.Runners != tt.wantRunners {
				t.Errorf("runners = %q, want %q", got.Runners, tt.wantRunners)
			}
			if got.Runs != tt.wantRuns || len(got.Scored) != tt.wantRuns {
				t.Errorf("runs = %d (scored %v), want %d", got.Runs, got.Scored, tt.wantRuns)
			}
		})
	}
}

func TestAdvanceScoredOrder(t *testing.T) {
	got, err := Advance(HitHomeRun, [3]bool{true, false, true}, [3]string{"r1", "", "r3"}, "bat")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if want := []string{"r3", "r1", "bat"}; !slices.Equal(got.Scored, want) {
		t.Errorf("scored = %v, want %v", got.Scored, want)
	}
}

func TestAdvanceInvalidHitType(t *testing.T) {
	_, err := Advance(HitType("GRAND_SLAM"), [3]bool{}, [3]string{}, "bat")
	if !errors.Is(err, ErrInvalidHitType) {
		t.Fatalf("err = %v, want ErrInvalidHitType", err)
	}
}
