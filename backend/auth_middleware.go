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
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const defaultAuthCookie = "pbp_auth"

// bearerToken returns the token from the Authorization header, falling back
// to the auth cookie.
func bearerToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// parseUserToken verifies an HS256 token and returns its subject.
func parseUserToken(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	for _, key := range []string{"sub", "email"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return normalizeUserID(v), nil
		}
	}
	return "", fmt.Errorf("token has no subject")
}

// jwtAuthMiddleware puts the caller's user ID in the request context when
// the request carries a valid token. Requests without one pass through
// anonymously; requireUser decides whether that is allowed.
func jwtAuthMiddleware(secret []byte, cookieName string, logger zerolog.Logger) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = defaultAuthCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			tok := bearerToken(r, cookieName)
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := parseUserToken(tok, secret)
			if err != nil {
				// Probes with junk tokens are common; keep them out of the info log.
				logger.Debug().Err(err).Msg("JWT validation failed")
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireUser rejects anonymous requests when authentication is configured.
func requireUser(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enabled && getUserID(r) == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
