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

// Package search parses the small query language used to filter finished
// games: free words plus key:value terms such as team:"Night Owls",
// winner:home, innings:>9 or runs:8..12.
package search

import (
	"strconv"
	"strings"
	"unicode"
)

type Operator string

const (
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpRange          Operator = ".." // innings:10..12
)

// Filter is one key:value term.
type Filter struct {
	Key      string
	Value    string
	MaxValue string // OpRange only
	Operator Operator
}

// Query is a parsed search string.
type Query struct {
	Filters  []Filter
	FreeText []string
}

// Longest prefixes first so ">=" wins over ">".
var comparisons = []Operator{OpGreaterOrEqual, OpLessOrEqual, OpGreater, OpLess}

// Parse splits input into filters and free text. A term whose value holds
// an unquoted colon, or whose key or value is empty, is kept as free text.
func Parse(input string) Query {
	q := Query{
		Filters:  make([]Filter, 0),
		FreeText: make([]string, 0),
	}

	for _, token := range tokenize(input) {
		key, val, found := strings.Cut(token, ":")
		if !found {
			q.FreeText = append(q.FreeText, removeQuotes(token))
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		quoted := strings.HasPrefix(val, "\"") || strings.HasPrefix(val, "'")
		if key == "" || val == "" || (strings.Contains(val, ":") && !quoted) {
			q.FreeText = append(q.FreeText, token)
			continue
		}
		q.Filters = append(q.Filters, parseFilter(key, val))
	}
	return q
}

func parseFilter(key, val string) Filter {
	if lo, hi, ok := strings.Cut(val, ".."); ok {
		return Filter{Key: key, Value: lo, MaxValue: hi, Operator: OpRange}
	}
	for _, op := range comparisons {
		if rest, ok := strings.CutPrefix(val, string(op)); ok {
			return Filter{Key: key, Value: removeQuotes(rest), Operator: op}
		}
	}
	return Filter{Key: key, Value: removeQuotes(val), Operator: OpEqual}
}

// MatchInt reports whether v satisfies the filter. A value that is not a
// number matches nothing.
func (f Filter) MatchInt(v int) bool {
	want, err := strconv.Atoi(f.Value)
	if err != nil {
		return false
	}
	switch f.Operator {
	case OpGreater:
		return v > want
	case OpGreaterOrEqual:
		return v >= want
	case OpLess:
		return v < want
	case OpLessOrEqual:
		return v <= want
	case OpRange:
		hi, err := strconv.Atoi(f.MaxValue)
		return err == nil && v >= want && v <= hi
	}
	return v == want
}

// MatchText reports whether s contains the filter value, ignoring case.
func (f Filter) MatchText(s string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(f.Value))
}

// tokenize splits the string by spaces, respecting quotes.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune

	for _, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func removeQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
