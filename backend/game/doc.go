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

// Package game is the rules engine: a pitch-by-pitch state machine that
// advances a GameState one Action at a time. Given the same seed, setup and
// action sequence it always produces the same sequence of states.
//
// A Reducer owns the transition function. It routes each Action through the
// simulation, lifecycle, decision and setup handler groups, in that order.
// Every probabilistic outcome draws from the Reducer's Source, so capturing
// the Source position together with the GameState is enough to resume a game
// exactly where it stopped.
package game
