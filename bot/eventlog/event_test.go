// Copyright 2026 The anonbot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package eventlog

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/anonbot/relay/bot/model"
)

func TestEventWireFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		event Event
		line  string
	}{
		{
			event: Event{UserConnected: &UserConnectedEvent{
				User:   model.User{Login: "alice", FirstName: "Alice"},
				ChatID: 7,
			}},
			line: `{"UserConnected":{"user":{"login":"alice","first_name":"Alice"},"chat_id":7}}`,
		},
		{
			event: Event{ThreadStarted: &ThreadStartedEvent{
				Login:         "alice",
				OtherLogin:    "bob",
				MyThreadID:    "@bob",
				OtherThreadID: "#amber_otter",
				AnonMode:      model.AnonModeMe,
			}},
			line: `{"ThreadStarted":{"login":"alice","other_login":"bob",` +
				`"my_thread_id":"@bob","other_thread_id":"#amber_otter","anon_mode":"Me"}}`,
		},
		{
			event: Event{ThreadMessageReceived: &ThreadMessageReceivedEvent{
				Login:     "bob",
				MessageID: 42,
				ThreadID:  "#amber_otter",
			}},
			line: `{"ThreadMessageReceived":{"login":"bob","message_id":42,"thread_id":"#amber_otter"}}`,
		},
		{
			event: Event{UserStopped: &UserStoppedEvent{Login: "carol"}},
			line:  `{"UserStopped":{"login":"carol"}}`,
		},
	}
	for _, cs := range cases {
		encoded, err := json.Marshal(&cs.event)
		require.NoError(t, err)
		require.Equal(t, cs.line, string(encoded))

		var decoded Event
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		require.NoError(t, decoded.Validate())
		require.Equal(t, cs.event, decoded)
	}
}

func TestEventKind(t *testing.T) {
	t.Parallel()

	events := []Event{
		{UserConnected: &UserConnectedEvent{}},
		{ThreadStarted: &ThreadStartedEvent{}},
		{ThreadMessageReceived: &ThreadMessageReceivedEvent{}},
		{ThreadTerminated: &ThreadTerminatedEvent{}},
		{UserBanned: &UserBannedEvent{}},
		{UserUnbanned: &UserUnbannedEvent{}},
		{UserStopped: &UserStoppedEvent{}},
		{UserStarted: &UserStartedEvent{}},
	}
	kinds := []string{
		"UserConnected", "ThreadStarted", "ThreadMessageReceived",
		"ThreadTerminated", "UserBanned", "UserUnbanned",
		"UserStopped", "UserStarted",
	}
	for i, event := range events {
		require.NoError(t, event.Validate())
		require.Equal(t, kinds[i], event.Kind())
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	var empty Event
	require.ErrorContains(t, empty.Validate(), "no known variant")
	require.Equal(t, "", empty.Kind())

	double := Event{
		UserStopped: &UserStoppedEvent{Login: "alice"},
		UserStarted: &UserStartedEvent{Login: "alice"},
	}
	require.ErrorContains(t, double.Validate(), "multiple variants")
}
