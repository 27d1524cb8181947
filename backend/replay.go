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

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"

	"github.com/ttbt-io/pitchbypitch/backend/game"
	"github.com/ttbt-io/pitchbypitch/backend/rng"
)

// ErrInvalidReplayLink is returned for links without a usable seed.
var ErrInvalidReplayLink = errors.New("invalid replay link")

// Replay is a seed plus the managed side's decisions: everything beyond the
// setup that a game needs to be played again.
type Replay struct {
	Seed        uint32   `json:"seed"`
	DecisionLog []string `json:"decisionLog"`
}

// EncodeReplayLink appends the replay to base as seed and d query parameters.
func EncodeReplayLink(base string, seed uint32, decisionLog []string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("replay base: %w", err)
	}
	q := u.Query()
	q.Set("seed", rng.FormatSeed(seed))
	if len(decisionLog) > 0 {
		q.Set("d", strings.Join(decisionLog, ","))
	} else {
		q.Del("d")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseReplayLink reads a link produced by EncodeReplayLink. Empty
// decision entries are dropped; malformed ones are left for the decision
// log parser to skip.
func ParseReplayLink(link string) (Replay, error) {
	u, err := url.Parse(link)
	if err != nil {
		return Replay{}, fmt.Errorf("%w: %v", ErrInvalidReplayLink, err)
	}
	q := u.Query()
	seed, ok := rng.DecodeSeed(q.Get("seed"))
	if !ok {
		return Replay{}, fmt.Errorf("%w: seed %q", ErrInvalidReplayLink, q.Get("seed"))
	}
	rp := Replay{Seed: seed, DecisionLog: []string{}}
	for _, e := range strings.Split(q.Get("d"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			rp.DecisionLog = append(rp.DecisionLog, e)
		}
	}
	return rp, nil
}

// RunReplay plays setup from the first pitch, answering the managed side's
// decisions from the replay's log and everything else with the AI.
func RunReplay(setup game.Setup, rp Replay, maxSteps int, logger *zerolog.Logger) (game.GameState, error) {
	setup = setup.Normalize()
	if err := setup.Validate(); err != nil {
		return game.GameState{}, err
	}
	r := game.NewReducer(rng.New(rp.Seed), game.Options{Logger: logger, Seed: rp.Seed})
	start := game.ApplySetup(game.NewState([2]string{}), setup)
	d := game.NewDriver(r, start, setup.ManagerMode, setup.ManagedSide, game.NewLogManager(setup.ManagedSide, rp.DecisionLog))
	return d.PlayToEnd(maxSteps)
}

// VerifyReplay returns a unified diff between two states, or "" when they
// are identical.
func VerifyReplay(expected, actual game.GameState) (string, error) {
	a, err := json.MarshalIndent(expected, "", "  ")
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		return "", err
	}
	if string(a) == string(b) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "expected",
		ToFile:   "replayed",
		Context:  3,
	})
}
