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
	"net/http"
	"strings"
)

type contextKey struct{}

// userIDKey is the context key for the authenticated user's ID.
// The associated value is always a string.
var userIDKey contextKey

// getUserID returns the UserID from the request context, if present.
func getUserID(r *http.Request) string {
	if val := r.Context().Value(userIDKey); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// normalizeUserID ensures consistent casing and whitespace for user IDs.
func normalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// maskUserID obscures a user ID for safe logging.
// e.g. "user@example.com" -> "u***@example.com", "scorer" -> "s***"
func maskUserID(id string) string {
	if id == "" {
		return "<empty>"
	}
	local, domain, found := strings.Cut(id, "@")
	if local == "" {
		return "****"
	}
	if !found {
		return local[:1] + "***"
	}
	return local[:1] + "***@" + domain
}
