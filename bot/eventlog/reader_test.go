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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderStreamsEvents(t *testing.T) {
	t.Parallel()

	log := `{"UserConnected":{"user":{"login":"alice","first_name":"Alice"},"chat_id":1}}
{"UserStarted":{"login":"alice"}}

{"UserStopped":{"login":"alice"}}
`
	reader := NewReader(strings.NewReader(log))

	event, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, "UserConnected", event.Kind())
	require.Equal(t, "alice", event.UserConnected.User.Login)
	require.Equal(t, int64(1), event.UserConnected.ChatID)

	event, err = reader.Next()
	require.NoError(t, err)
	require.Equal(t, "UserStarted", event.Kind())

	// The blank line is skipped.
	event, err = reader.Next()
	require.NoError(t, err)
	require.Equal(t, "UserStopped", event.Kind())

	_, err = reader.Next()
	require.Equal(t, io.EOF, err)
	_, err = reader.Next()
	require.Equal(t, io.EOF, err)
}

func TestReaderRejectsCorruptRecord(t *testing.T) {
	t.Parallel()

	log := `{"UserStarted":{"login":"alice"}}
{"UserStopped":{"login"
`
	reader := NewReader(strings.NewReader(log))
	_, err := reader.Next()
	require.NoError(t, err)
	_, err = reader.Next()
	require.ErrorContains(t, err, "failed to decode event log record")
}

func TestReaderRejectsUnknownVariant(t *testing.T) {
	t.Parallel()

	reader := NewReader(strings.NewReader(`{"SomethingElse":{"login":"alice"}}` + "\n"))
	_, err := reader.Next()
	require.ErrorContains(t, err, "no known variant")
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	log := `{"UserStarted":{"login":"alice"}}
{"UserStopped":{"login":"alice"}}
`
	events, err := ReadAll(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "UserStarted", events[0].Kind())
	require.Equal(t, "UserStopped", events[1].Kind())

	events, err = ReadAll(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, events)
}
