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

// Save file format versions
const (
	SaveFormatV1 = 1

	CurrentSaveFormat = SaveFormatV1
)

// Import error categories
const (
	ImportInvalidSave        = "invalid_save"
	ImportUnsupportedVersion = "unsupported_version"
	ImportSignatureMismatch  = "signature_mismatch"
	ImportFailed             = "import_failed"
)

// WebSocket message types
const (
	MsgTypeState = "STATE"
	MsgTypePing  = "PING"
	MsgTypePong  = "PONG"
	MsgTypeError = "ERROR"
)

// Session status values reported by the API
const (
	StatusPlaying  = "playing"
	StatusAwaiting = "awaiting_decision"
	StatusFinal    = "final"
)

// Step limits
const (
	DefaultStepBatch = 1
	MaxStepBatch     = 5000
	// MaxGameSteps bounds a full autoplay. Real games finish in a few thousand.
	MaxGameSteps = 50000
)
