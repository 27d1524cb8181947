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
	"strings"

	"github.com/ttbt-io/pitchbypitch/backend/archive"
	"github.com/ttbt-io/pitchbypitch/backend/rng"
	"github.com/ttbt-io/pitchbypitch/backend/search"
)

// matchResult reports whether r satisfies every term of q. Unknown keys
// match nothing, so a typo gives an empty list rather than everything.
func matchResult(r archive.Result, q search.Query) bool {
	for _, word := range q.FreeText {
		f := search.Filter{Value: word}
		if !f.MatchText(r.Teams[0]) && !f.MatchText(r.Teams[1]) {
			return false
		}
	}
	for _, f := range q.Filters {
		if !matchResultFilter(r, f) {
			return false
		}
	}
	return true
}

func matchResultFilter(r archive.Result, f search.Filter) bool {
	switch f.Key {
	case "team":
		return f.MatchText(r.Teams[0]) || f.MatchText(r.Teams[1])
	case "away":
		return f.MatchText(r.Teams[0])
	case "home":
		return f.MatchText(r.Teams[1])
	case "winner":
		w := r.Winner()
		if w < 0 {
			return false
		}
		switch strings.ToLower(f.Value) {
		case "away":
			return w == 0
		case "home":
			return w == 1
		}
		return f.MatchText(r.Teams[w])
	case "innings":
		return f.MatchInt(r.Innings)
	case "runs":
		return f.MatchInt(r.Score[0] + r.Score[1])
	case "margin":
		d := r.Score[0] - r.Score[1]
		return f.MatchInt(max(d, -d))
	case "seed":
		seed, ok := rng.DecodeSeed(f.Value)
		return ok && seed == r.Seed
	case "decision":
		// decision:ibb matches "14:ibb"; decision:pinch matches "20:pinch:power".
		for _, e := range r.DecisionLog {
			_, rest, _ := strings.Cut(e, ":")
			if rest == f.Value || strings.HasPrefix(rest, f.Value+":") {
				return true
			}
		}
		return false
	}
	return false
}

// filterResults applies a query string, keeping at most limit results.
func filterResults(results []archive.Result, query string, limit int) []archive.Result {
	q := search.Parse(query)
	out := make([]archive.Result, 0, min(len(results), limit))
	for _, r := range results {
		if len(out) == limit {
			break
		}
		if matchResult(r, q) {
			out = append(out, r)
		}
	}
	return out
}
