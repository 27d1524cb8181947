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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ttbt-io/pitchbypitch/backend/game"
)

// GameConfig is a game setup file:
//
//	seed: pbp2026
//	managerMode: true
//	managedSide: 1
//	teams:
//	  - name: Visitors
//	    strategy: aggressive
//	  - name: Locals
//	    lineup: [l1, l2, l3, l4, l5, l6, l7, l8, l9]
//	    mods:
//	      l4: {power: 1.3}
//
// Anything left out takes the generic roster's value.
type GameConfig struct {
	Seed  string     `yaml:"seed"`
	Setup game.Setup `yaml:",inline"`
}

// ParseGameConfig reads YAML, fills defaults and validates the result.
func ParseGameConfig(data []byte) (GameConfig, error) {
	var cfg GameConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, fmt.Errorf("parse game config: %w", err)
	}
	cfg.Setup = cfg.Setup.Normalize()
	if err := cfg.Setup.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// LoadGameConfig reads a setup file. An empty path gives the default setup.
func LoadGameConfig(path string) (GameConfig, error) {
	if path == "" {
		return GameConfig{Setup: game.DefaultSetup()}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return GameConfig{}, err
	}
	return ParseGameConfig(data)
}
