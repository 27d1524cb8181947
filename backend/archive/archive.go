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

// Package archive keeps the results of finished games.
package archive

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"
)

var (
	ErrResultNotFound = errors.New("result not found")
	ErrResultExists   = errors.New("result already archived")
)

// Result is the final line of one game plus what is needed to replay it.
type Result struct {
	GameID      string    `json:"gameId"`
	Seed        uint32    `json:"seed"`
	Teams       [2]string `json:"teams"`
	Score       [2]int    `json:"score"`
	Innings     int       `json:"innings"`
	DecisionLog []string  `json:"decisionLog"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Winner returns the index of the winning team, or -1 for an unfinished tie.
func (r Result) Winner() int {
	switch {
	case r.Score[0] > r.Score[1]:
		return 0
	case r.Score[1] > r.Score[0]:
		return 1
	}
	return -1
}

type Repository interface {
	SaveResult(ctx context.Context, r Result) error
	GetResult(ctx context.Context, gameID string) (Result, error)
	// ListResults returns the most recently finished games first.
	ListResults(ctx context.Context, limit int) ([]Result, error)
	Close() error
}

type memoryRepository struct {
	mu      sync.RWMutex
	results map[string]Result
}

func NewMemoryRepository() Repository {
	return &memoryRepository{results: make(map[string]Result)}
}

func (m *memoryRepository) SaveResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.results[r.GameID]; exists {
		return ErrResultExists
	}
	m.results[r.GameID] = cloneResult(r)
	return nil
}

func (m *memoryRepository) GetResult(_ context.Context, gameID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[gameID]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return cloneResult(r), nil
}

func (m *memoryRepository) ListResults(_ context.Context, limit int) ([]Result, error) {
	m.mu.RLock()
	out := make([]Result, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, cloneResult(r))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].FinishedAt.After(out[j].FinishedAt)
		}
		return out[i].GameID < out[j].GameID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepository) Close() error { return nil }

func cloneResult(r Result) Result {
	r.DecisionLog = slices.Clone(r.DecisionLog)
	if r.DecisionLog == nil {
		r.DecisionLog = []string{}
	}
	return r
}
