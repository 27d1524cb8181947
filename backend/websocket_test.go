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
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestSpectatorReceivesUpdates(t *testing.T) {
	ts := newTestServer(t, nil)
	view := createGame(t, ts, map[string]string{"seed": "3"}, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/games/" + view.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Type != MsgTypeState || first.GameID != view.ID || first.Status != StatusPlaying {
		t.Fatalf("first message = %+v", first)
	}

	if err := conn.WriteJSON(Message{Type: MsgTypePing}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MsgTypePong {
		t.Fatalf("reply to PING = %+v", msg)
	}
	if err := conn.WriteJSON(Message{Type: "STEP"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MsgTypeError || msg.Error == "" {
		t.Fatalf("reply to STEP = %+v", msg)
	}

	if status, body := call(t, "POST", ts.URL+"/api/v1/games/"+view.ID+"/step?n=3", nil, nil, nil); status != http.StatusOK {
		t.Fatalf("step: %d %s", status, body)
	}
	update := readMessage(t, conn)
	if update.Type != MsgTypeState {
		t.Fatalf("update = %+v", update)
	}
	var got SessionView
	if err := json.Unmarshal(update.Payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != view.ID || got.State.PitchKey < 3 {
		t.Errorf("update = id %q pitch %d", got.ID, got.State.PitchKey)
	}
}

func TestHubManagerBroadcastWithoutHub(t *testing.T) {
	hm := NewHubManager(zerolog.Nop())
	hm.Broadcast("nobody-watching", Message{Type: MsgTypeState})
	if n := hm.HubCount(); n != 0 {
		t.Errorf("HubCount = %d", n)
	}
	h := hm.GetHub("g1")
	if hm.GetHub("g1") != h || hm.HubCount() != 1 {
		t.Error("GetHub did not reuse the hub")
	}
	hm.removeHub(h)
	if hm.HubCount() != 0 {
		t.Error("removeHub left the hub registered")
	}
}
