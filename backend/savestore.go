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
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const savesDir = "saves"

// SaveSummary is the sidecar written next to each save so listings don't
// need to open and verify every file.
type SaveSummary struct {
	ID       string    `json:"id"`
	Teams    [2]string `json:"teams"`
	Score    [2]int    `json:"score"`
	Inning   int       `json:"inning"`
	Half     string    `json:"half"`
	GameOver bool      `json:"gameOver"`
	Seed     uint32    `json:"seed"`
	SavedAt  int64     `json:"savedAt"`
}

// SummarizeSave builds the listing entry for a save.
func SummarizeSave(p SavePayload) SaveSummary {
	return SaveSummary{
		ID:       p.SaveID,
		Teams:    p.State.TeamNames,
		Score:    p.State.Score,
		Inning:   p.State.Inning,
		Half:     p.State.Half.String(),
		GameOver: p.State.GameOver,
		Seed:     p.Seed,
		SavedAt:  p.SavedAt,
	}
}

// SaveStore keeps signed saves on disk. Files are written through
// c2FmZQ/storage, so they are encrypted and compressed when the store is.
type SaveStore struct {
	DataDir string
	storage *storage.Storage
	log     zerolog.Logger
	mu      sync.Map // *sync.RWMutex per save id
}

// NewSaveStore returns a store rooted at dataDir.
func NewSaveStore(dataDir string, s *storage.Storage, logger zerolog.Logger) *SaveStore {
	return &SaveStore{
		DataDir: dataDir,
		storage: s,
		log:     logger.With().Str("component", "savestore").Logger(),
	}
}

func (ss *SaveStore) lock(id string) *sync.RWMutex {
	m, _ := ss.mu.LoadOrStore(id, &sync.RWMutex{})
	return m.(*sync.RWMutex)
}

func saveFiles(id string) (string, string) {
	encoded := url.PathEscape(id)
	return filepath.Join(savesDir, encoded+".json"), filepath.Join(savesDir, encoded+".meta.json")
}

// Save writes p, assigning a save id and timestamp when they are missing.
// The stored payload is returned.
func (ss *SaveStore) Save(p SavePayload) (SavePayload, error) {
	if p.SaveID == "" {
		p.SaveID = uuid.NewString()
	}
	if p.SavedAt == 0 {
		p.SavedAt = time.Now().UnixMilli()
	}
	data, err := ExportSave(p)
	if err != nil {
		return p, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return p, fmt.Errorf("re-read envelope: %w", err)
	}

	mutex := ss.lock(p.SaveID)
	mutex.Lock()
	defer mutex.Unlock()

	filename, metaFilename := saveFiles(p.SaveID)
	if err := ss.storage.SaveDataFile(filename, &env); err != nil {
		return p, fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	meta := SummarizeSave(p)
	if err := ss.storage.SaveDataFile(metaFilename, &meta); err != nil {
		// Listing falls back to the save itself.
		ss.log.Warn().Err(err).Str("saveId", p.SaveID).Msg("could not write save sidecar")
	}
	ss.log.Debug().Str("saveId", p.SaveID).Int("pitchKey", p.State.PitchKey).Msg("saved")
	return p, nil
}

// Load reads and verifies a save. A missing save returns os.ErrNotExist;
// a damaged one returns an *ImportError.
func (ss *SaveStore) Load(id string) (SavePayload, error) {
	mutex := ss.lock(id)
	mutex.RLock()
	defer mutex.RUnlock()

	filename, _ := saveFiles(id)
	var env Envelope
	if err := ss.storage.ReadDataFile(filename, &env); err != nil {
		if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			return SavePayload{}, os.ErrNotExist
		}
		return SavePayload{}, fmt.Errorf("ReadDataFile: %w", err)
	}
	data, err := json.Marshal(&env)
	if err != nil {
		return SavePayload{}, err
	}
	return ImportSave(data)
}

// Delete removes a save. Deleting a missing save is not an error.
func (ss *SaveStore) Delete(id string) error {
	mutex := ss.lock(id)
	mutex.Lock()
	defer mutex.Unlock()

	filename, metaFilename := saveFiles(id)
	if err := os.Remove(filepath.Join(ss.DataDir, filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete save: %w", err)
	}
	if err := os.Remove(filepath.Join(ss.DataDir, metaFilename)); err != nil && !os.IsNotExist(err) {
		ss.log.Warn().Err(err).Str("saveId", id).Msg("could not delete save sidecar")
	}
	ss.mu.Delete(id)
	return nil
}

// List yields a summary of every save, in directory order.
func (ss *SaveStore) List() iter.Seq2[SaveSummary, error] {
	return func(yield func(SaveSummary, error) bool) {
		files, err := os.ReadDir(filepath.Join(ss.DataDir, savesDir))
		if err != nil {
			if !os.IsNotExist(err) {
				yield(SaveSummary{}, fmt.Errorf("could not read saves directory: %w", err))
			}
			return
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".meta.json") {
				continue
			}
			id, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
			if err != nil {
				continue
			}
			sum, err := ss.summary(id)
			if errors.Is(err, os.ErrNotExist) {
				// Deleted while listing.
				continue
			}
			if !yield(sum, err) {
				return
			}
		}
	}
}

func (ss *SaveStore) summary(id string) (SaveSummary, error) {
	_, metaFilename := saveFiles(id)
	var meta SaveSummary
	mutex := ss.lock(id)
	mutex.RLock()
	err := ss.storage.ReadDataFile(metaFilename, &meta)
	mutex.RUnlock()
	if err == nil && meta.ID == id {
		return meta, nil
	}
	p, err := ss.Load(id)
	if err != nil {
		return SaveSummary{ID: id}, err
	}
	return SummarizeSave(p), nil
}
