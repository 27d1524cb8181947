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

package search

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Query
	}{
		{
			input: "team:Locals",
			expected: Query{
				Filters: []Filter{{Key: "team", Value: "Locals", Operator: OpEqual}},
			},
		},
		{
			input: "team:\"Night Owls\" winner:home",
			expected: Query{
				Filters: []Filter{
					{Key: "team", Value: "Night Owls", Operator: OpEqual},
					{Key: "winner", Value: "home", Operator: OpEqual},
				},
			},
		},
		{
			input: "walkoff innings:>9",
			expected: Query{
				Filters:  []Filter{{Key: "innings", Value: "9", Operator: OpGreater}},
				FreeText: []string{"walkoff"},
			},
		},
		{
			input: "RUNS:>=\"10\"",
			expected: Query{
				Filters: []Filter{{Key: "runs", Value: "10", Operator: OpGreaterOrEqual}},
			},
		},
		{
			input: "innings:<=9",
			expected: Query{
				Filters: []Filter{{Key: "innings", Value: "9", Operator: OpLessOrEqual}},
			},
		},
		{
			input: "runs:8..12",
			expected: Query{
				Filters: []Filter{{Key: "runs", Value: "8", MaxValue: "12", Operator: OpRange}},
			},
		},
		{
			input: "mixed \"free text\" seed:abc",
			expected: Query{
				Filters:  []Filter{{Key: "seed", Value: "abc", Operator: OpEqual}},
				FreeText: []string{"mixed", "free text"},
			},
		},
		{
			input: "broken:range:..",
			expected: Query{
				FreeText: []string{"broken:range:.."},
			},
		},
		{
			input: "log:4:ibb", // Unquoted colon -> FreeText
			expected: Query{
				FreeText: []string{"log:4:ibb"},
			},
		},
		{
			input: "log:\"4:ibb\"",
			expected: Query{
				Filters: []Filter{{Key: "log", Value: "4:ibb", Operator: OpEqual}},
			},
		},
		{
			input: "team: :home",
			expected: Query{
				FreeText: []string{"team:", ":home"},
			},
		},
	}

	for _, tt := range tests {
		got := Parse(tt.input)
		if tt.expected.Filters == nil {
			tt.expected.Filters = []Filter{}
		}
		if tt.expected.FreeText == nil {
			tt.expected.FreeText = []string{}
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Parse(%q)\ngot  %#v\nwant %#v", tt.input, got, tt.expected)
		}
	}
}

func TestMatchInt(t *testing.T) {
	tests := []struct {
		filter Filter
		v      int
		want   bool
	}{
		{Filter{Value: "9", Operator: OpEqual}, 9, true},
		{Filter{Value: "9", Operator: OpGreater}, 9, false},
		{Filter{Value: "9", Operator: OpGreaterOrEqual}, 9, true},
		{Filter{Value: "9", Operator: OpLess}, 8, true},
		{Filter{Value: "9", Operator: OpLessOrEqual}, 10, false},
		{Filter{Value: "8", MaxValue: "12", Operator: OpRange}, 12, true},
		{Filter{Value: "8", MaxValue: "12", Operator: OpRange}, 13, false},
		{Filter{Value: "8", MaxValue: "x", Operator: OpRange}, 9, false},
		{Filter{Value: "nine", Operator: OpEqual}, 9, false},
	}
	for _, tt := range tests {
		if got := tt.filter.MatchInt(tt.v); got != tt.want {
			t.Errorf("%+v.MatchInt(%d) = %v, want %v", tt.filter, tt.v, got, tt.want)
		}
	}
}

func TestMatchText(t *testing.T) {
	f := Filter{Key: "team", Value: "owls", Operator: OpEqual}
	if !f.MatchText("Night Owls") {
		t.Error("expected case-insensitive substring match")
	}
	if f.MatchText("Locals") {
		t.Error("unexpected match")
	}
}
