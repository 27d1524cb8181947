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

// Package rng provides the seeded generator every probabilistic decision in a
// game draws from. A Generator's position can be captured with State and put
// back with Restore, so a save file records exactly where in the sequence the
// game stopped rather than just the seed it started from.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
)

// Generator is a 32-bit mulberry32 sequence.
type Generator struct {
	seed  uint32
	state uint32
}

// New returns a generator positioned at the start of the sequence for seed.
func New(seed uint32) *Generator {
	return &Generator{seed: seed, state: seed}
}

// Next returns the next value in [0, 1).
func (g *Generator) Next() float64 {
	g.state += 0x6D2B79F5
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint32 {
	return g.seed
}

// State returns the current position in the sequence.
func (g *Generator) State() uint32 {
	return g.state
}

// Restore moves the generator to a position previously returned by State.
func (g *Generator) Restore(state uint32) {
	g.state = state
}

// ParseSeed parses seed text. Text made only of decimal digits is read as
// base 10, anything else alphanumeric as base 36. Values wider than 32 bits
// keep their low 32 bits.
func ParseSeed(text string) (uint32, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, false
	}
	base := 36
	if isDecimal(text) {
		base = 10
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// SeedFromText returns the parsed seed, or a fresh random one when text is
// blank or unparseable.
func SeedFromText(text string) uint32 {
	if seed, ok := ParseSeed(text); ok {
		return seed
	}
	return RandomSeed()
}

// RandomSeed returns a seed from the system's secure random source.
func RandomSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(b[:])
}

// FormatSeed renders a seed in base 36, the form used in replay links.
func FormatSeed(seed uint32) string {
	return strconv.FormatUint(uint64(seed), 36)
}

// DecodeSeed is the inverse of FormatSeed. Unlike ParseSeed it never treats
// all-digit text as decimal.
func DecodeSeed(text string) (uint32, bool) {
	v, err := strconv.ParseUint(strings.ToLower(strings.TrimSpace(text)), 36, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
