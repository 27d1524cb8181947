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
)

// ErrInvalidHitType is returned when a hit tag outside the known set reaches
// the baserunning resolver.
var ErrInvalidHitType = errors.New("invalid hit type")

// Advancement is the result of moving runners for one hit or walk.
type Advancement struct {
	Bases   [3]bool
	Runners [3]string
	Runs    int
	Scored  []string
}

// Advance moves the batter and runners for hit. Runner ids travel with their
// runner; a runner who scores leaves the bases and is listed in Scored.
func Advance(hit HitType, bases [3]bool, runners [3]string, batter string) (Advancement, error) {
	var a Advancement
	score := func(id string) {
		a.Runs++
		a.Scored = append(a.Scored, id)
	}
	place := func(base int, id string) {
		a.Bases[base] = true
		a.Runners[base] = id
	}

	switch hit {
	case HitHomeRun:
		for b := 2; b >= 0; b-- {
			if bases[b] {
				score(runners[b])
			}
		}
		score(batter)
	case HitTriple:
		for b := 2; b >= 0; b-- {
			if bases[b] {
				score(runners[b])
			}
		}
		place(2, batter)
	case HitDouble:
		if bases[2] {
			score(runners[2])
		}
		if bases[1] {
			score(runners[1])
		}
		if bases[0] {
			place(2, runners[0])
		}
		place(1, batter)
	case HitSingle:
		if bases[2] {
			score(runners[2])
		}
		if bases[1] {
			place(2, runners[1])
		}
		if bases[0] {
			place(1, runners[0])
		}
		place(0, batter)
	case HitWalk:
		for b := range 3 {
			if bases[b] {
				place(b, runners[b])
			}
		}
		// Each runner moves only when forced by the runner behind.
		if bases[0] {
			if bases[1] {
				if bases[2] {
					score(runners[2])
				}
				place(2, runners[1])
			}
			place(1, runners[0])
		}
		place(0, batter)
	default:
		return Advancement{}, wrapHitType(hit)
	}
	return a, nil
}

func wrapHitType(hit HitType) error {
	return fmt.Errorf("%w: %q", ErrInvalidHitType, hit)
}
