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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/c2FmZQ/storage"
	"github.com/rs/zerolog"
)

func newTestSaveStore(t *testing.T) *SaveStore {
	t.Helper()
	dir := t.TempDir()
	return NewSaveStore(dir, storage.New(dir, nil), zerolog.Nop())
}

func TestSaveStoreRoundTrip(t *testing.T) {
	ss := newTestSaveStore(t)
	p := playedPayload(t, 21)
	p.SaveID = ""
	p.SavedAt = 0

	saved, err := ss.Save(p)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !isValidUUID(saved.SaveID) {
		t.Errorf("assigned save id %q is not a uuid", saved.SaveID)
	}
	if saved.SavedAt == 0 {
		t.Error("SavedAt not assigned")
	}

	got, err := ss.Load(saved.SaveID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SaveID != saved.SaveID || got.RNGState != p.RNGState || got.State.PitchKey != p.State.PitchKey {
		t.Errorf("Load = id %q state %d pk %d, want %q %d %d",
			got.SaveID, got.RNGState, got.State.PitchKey, saved.SaveID, p.RNGState, p.State.PitchKey)
	}
}

func TestSaveStoreMissing(t *testing.T) {
	ss := newTestSaveStore(t)
	if _, err := ss.Load("nope"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) err = %v, want os.ErrNotExist", err)
	}
	if err := ss.Delete("nope"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestSaveStoreListAndDelete(t *testing.T) {
	ss := newTestSaveStore(t)

	// Nothing saved yet: no directory, no error.
	for sum, err := range ss.List() {
		t.Fatalf("List on empty store yielded %+v, %v", sum, err)
	}

	ids := map[string]bool{}
	for _, seed := range []uint32{1, 2, 3} {
		p := playedPayload(t, seed)
		p.SaveID = ""
		saved, err := ss.Save(p)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids[saved.SaveID] = true
	}

	listed := map[string]SaveSummary{}
	for sum, err := range ss.List() {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		listed[sum.ID] = sum
	}
	if len(listed) != len(ids) {
		t.Fatalf("listed %d saves, want %d", len(listed), len(ids))
	}
	for id := range ids {
		sum, ok := listed[id]
		if !ok {
			t.Errorf("save %s not listed", id)
			continue
		}
		if sum.Teams[0] == "" || sum.Inning < 1 {
			t.Errorf("summary %+v", sum)
		}
	}

	var victim string
	for id := range ids {
		victim = id
		break
	}
	if err := ss.Delete(victim); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ss.Load(victim); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load after Delete err = %v", err)
	}
	n := 0
	for _, err := range ss.List() {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		n++
	}
	if n != len(ids)-1 {
		t.Errorf("listed %d saves after delete, want %d", n, len(ids)-1)
	}
}

func TestSaveStoreListWithoutSidecar(t *testing.T) {
	ss := newTestSaveStore(t)
	saved, err := ss.Save(playedPayload(t, 4))
	if err != nil {
		t.Fatal(err)
	}
	_, meta := saveFiles(saved.SaveID)
	if err := os.Remove(filepath.Join(ss.DataDir, meta)); err != nil {
		t.Fatal(err)
	}
	var got []SaveSummary
	for sum, err := range ss.List() {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		got = append(got, sum)
	}
	if len(got) != 1 || got[0].ID != saved.SaveID || got[0].Seed != 4 {
		t.Errorf("List = %+v", got)
	}
}

func TestSaveStoreRejectsTamperedFile(t *testing.T) {
	ss := newTestSaveStore(t)
	saved, err := ss.Save(playedPayload(t, 5))
	if err != nil {
		t.Fatal(err)
	}
	file, _ := saveFiles(saved.SaveID)
	var env Envelope
	if err := ss.storage.ReadDataFile(file, &env); err != nil {
		t.Fatal(err)
	}
	env.Signature = "0000000000000000"
	if err := ss.storage.SaveDataFile(file, &env); err != nil {
		t.Fatal(err)
	}

	_, err = ss.Load(saved.SaveID)
	var ie *ImportError
	if !errors.As(err, &ie) || ie.Category != ImportSignatureMismatch {
		t.Errorf("Load err = %v, want signature mismatch", err)
	}
}
