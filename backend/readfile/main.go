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

// readfile decrypts save files from a data directory, verifies them and
// prints them as JSON.
//
//	SK_MASTER_KEY=... go run ./backend/readfile -data-dir data saves/<id>.json
package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/rs/zerolog"

	"github.com/ttbt-io/pitchbypitch/backend"
)

var (
	dataDir  = flag.String("data-dir", "data", "Directory for save files")
	stateOut = flag.Bool("state", false, "Print the full game state, not just the summary")
)

type report struct {
	File     string               `json:"file"`
	Category string               `json:"category,omitempty"`
	Error    string               `json:"error,omitempty"`
	Summary  *backend.SaveSummary `json:"summary,omitempty"`
	Payload  *backend.SavePayload `json:"payload,omitempty"`
}

func main() {
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var masterKey crypto.MasterKey
	keyFile := filepath.Join(*dataDir, "master.key")
	if passphrase := os.Getenv("SK_MASTER_KEY"); passphrase != "" {
		var err error
		if masterKey, err = crypto.ReadMasterKey([]byte(passphrase), keyFile); err != nil {
			log.Fatal().Err(err).Msg("read master key")
		}
	} else if _, err := os.Stat(keyFile); err == nil {
		log.Fatal().Str("keyFile", keyFile).Msg("master key exists but SK_MASTER_KEY is not set")
	}
	store := storage.New(*dataDir, masterKey)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, arg := range flag.Args() {
		name := strings.TrimPrefix(strings.TrimPrefix(arg, *dataDir), string(filepath.Separator))
		rep := report{File: name}

		var env backend.Envelope
		if err := store.ReadDataFile(name, &env); err != nil {
			log.Error().Err(err).Str("file", name).Msg("read")
			continue
		}
		data, err := json.Marshal(&env)
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("encode")
			continue
		}
		if p, err := backend.ImportSave(data); err != nil {
			rep.Category = backend.ImportCategory(err)
			rep.Error = err.Error()
		} else {
			sum := backend.SummarizeSave(p)
			rep.Summary = &sum
			if *stateOut {
				rep.Payload = &p
			}
		}
		if err := enc.Encode(rep); err != nil {
			log.Error().Err(err).Str("file", name).Msg("JSON")
		}
	}
}
