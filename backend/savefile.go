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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/ttbt-io/pitchbypitch/backend/game"
)

// saveSigningKey is mixed into every save signature. It detects edits and
// truncation, not a determined forger.
const saveSigningKey = "pitchbypitch:save:7f3c9a21"

// SavePayload is everything needed to resume a game exactly where it stopped.
type SavePayload struct {
	SaveID   string         `json:"saveId"`
	SavedAt  int64          `json:"savedAt"`
	Seed     uint32         `json:"seed"`
	RNGState uint32         `json:"rngState"`
	Setup    game.Setup     `json:"setup"`
	State    game.GameState `json:"state"`
}

// Envelope is the on-disk and download form of a save.
type Envelope struct {
	Version   int             `json:"version"`
	Signature string          `json:"signature"`
	Payload   json.RawMessage `json:"payload"`
}

// ImportError is returned by ImportSave. Category is one of the Import*
// constants and is safe to show to a user.
type ImportError struct {
	Category string
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import save: %s: %v", e.Category, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func importError(category string, format string, args ...any) *ImportError {
	return &ImportError{Category: category, Err: fmt.Errorf(format, args...)}
}

// ImportCategory returns the category of err, or ImportFailed when err did
// not come from ImportSave.
func ImportCategory(err error) string {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Category
	}
	return ImportFailed
}

func signPayload(payload []byte) string {
	h := fnv.New64a()
	h.Write([]byte(saveSigningKey))
	h.Write(payload)
	return fmt.Sprintf("%016x", h.Sum64())
}

// ExportSave serializes and signs p.
func ExportSave(p SavePayload) ([]byte, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal save payload: %w", err)
	}
	return json.MarshalIndent(Envelope{
		Version:   CurrentSaveFormat,
		Signature: signPayload(payload),
		Payload:   payload,
	}, "", "  ")
}

// rawPayload decodes a payload without trusting any of its fields.
type rawPayload struct {
	SaveID   string          `json:"saveId"`
	SavedAt  int64           `json:"savedAt"`
	Seed     *uint32         `json:"seed"`
	RNGState *uint32         `json:"rngState"`
	Setup    *game.Setup     `json:"setup"`
	State    json.RawMessage `json:"state"`
}

// ImportSave verifies and decodes a save. The returned state has been
// brought up to the current schema. Every failure is an *ImportError.
func ImportSave(data []byte) (SavePayload, error) {
	var env struct {
		Version   *int            `json:"version"`
		Signature string          `json:"signature"`
		Payload   json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return SavePayload{}, importError(ImportInvalidSave, "not a save file: %w", err)
	}
	if env.Version == nil || len(env.Payload) == 0 {
		return SavePayload{}, importError(ImportInvalidSave, "missing version or payload")
	}
	if *env.Version != CurrentSaveFormat {
		return SavePayload{}, importError(ImportUnsupportedVersion, "version %d, want %d", *env.Version, CurrentSaveFormat)
	}

	// The envelope may have been re-indented; sign the compact form.
	var compact bytes.Buffer
	if err := json.Compact(&compact, env.Payload); err != nil {
		return SavePayload{}, importError(ImportInvalidSave, "payload: %w", err)
	}
	if sig := signPayload(compact.Bytes()); sig != env.Signature {
		return SavePayload{}, importError(ImportSignatureMismatch, "signature %q does not match payload", env.Signature)
	}

	var raw rawPayload
	if err := json.Unmarshal(compact.Bytes(), &raw); err != nil {
		return SavePayload{}, importError(ImportInvalidSave, "payload: %w", err)
	}
	if raw.Seed == nil || raw.RNGState == nil || raw.Setup == nil {
		return SavePayload{}, importError(ImportInvalidSave, "payload is missing seed, generator state or setup")
	}
	if trimmed := bytes.TrimSpace(raw.State); len(trimmed) == 0 || trimmed[0] != '{' {
		return SavePayload{}, importError(ImportInvalidSave, "payload state is not an object")
	}
	for i, t := range raw.Setup.Teams {
		if t.Name == "" {
			return SavePayload{}, importError(ImportInvalidSave, "setup team %d has no name", i)
		}
	}
	setup := raw.Setup.Normalize()
	if err := setup.Validate(); err != nil {
		return SavePayload{}, importError(ImportInvalidSave, "%w", err)
	}

	return SavePayload{
		SaveID:   raw.SaveID,
		SavedAt:  raw.SavedAt,
		Seed:     *raw.Seed,
		RNGState: *raw.RNGState,
		Setup:    setup,
		State:    game.Backfill(raw.State),
	}, nil
}
