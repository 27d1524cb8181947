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
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

// scriptedSource returns a fixed sequence of draws and fails the test if the
// code under test asks for more.
type scriptedSource struct {
	t    *testing.T
	vals []float64
	pos  int
}

func script(t *testing.T, vals ...float64) *scriptedSource {
	t.Helper()
	return &scriptedSource{t: t, vals: vals}
}

func (s *scriptedSource) Next() float64 {
	if s.pos >= len(s.vals) {
		s.t.Fatalf("scripted source exhausted after %d draws", s.pos)
	}
	v := s.vals[s.pos]
	s.pos++
	return v
}

func (s *scriptedSource) assertConsumed() {
	s.t.Helper()
	if s.pos != len(s.vals) {
		s.t.Errorf("used %d of %d scripted draws", s.pos, len(s.vals))
	}
}

type recordingAnnouncer struct {
	messages []string
}

func (a *recordingAnnouncer) Announce(msg string) {
	a.messages = append(a.messages, msg)
}

// newTestReducer returns a reducer with invariant checks on and its log
// captured in the returned buffer.
func newTestReducer(src Source) (*Reducer, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	on := true
	return NewReducer(src, Options{Logger: &logger, CheckInvariants: &on, Seed: 99, SaveID: "test-save"}), &buf
}

// rosterState is a fresh game with the generic rosters loaded.
func rosterState() GameState {
	return ApplySetup(NewState([2]string{}), DefaultSetup())
}

func mustDispatch(t *testing.T, r *Reducer, s GameState, a Action) GameState {
	t.Helper()
	next, err := r.Dispatch(s, a)
	if err != nil {
		t.Fatalf("Dispatch(%s) failed: %v", a.Type(), err)
	}
	return next
}

func newTestLogger() (*zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return &logger, &buf
}
