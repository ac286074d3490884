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

package bot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	const id = MessageID(17)
	cases := []struct {
		text    string
		command Command
		errMsg  string
	}{
		{text: "/start", command: StartCommand{}},
		{text: "/stop", command: StopCommand{}},
		{text: "/help", command: HelpCommand{}},
		{text: "/users", command: UsersCommand{}},
		{text: "/threads", command: ThreadsCommand{}},
		{text: "/banlist", command: BanlistCommand{}},
		{
			text:    "/random Hello there",
			command: RandomCommand{MessageID: id, Text: "Hello there"},
		},
		{text: "/random", errMsg: "message text is empty"},
		{
			text:    "/send @bob hello world",
			command: SendCommand{ThreadID: "@bob", MessageID: id, Text: "hello world"},
		},
		{
			text:    "/send #amber_otter hi",
			command: SendCommand{ThreadID: "#amber_otter", MessageID: id, Text: "hi"},
		},
		{text: "/send", errMsg: "no receiver specified"},
		{text: "/send @bob", errMsg: "message text is empty"},
		{text: "/send bob hi", errMsg: "thread id must start with '@' or '#'"},
		{text: "/close #amber_otter", command: CloseCommand{ThreadID: "#amber_otter"}},
		{text: "/close", errMsg: "no receiver specified"},
		{text: "/ban #amber_otter", command: BanCommand{ThreadID: "#amber_otter"}},
		{text: "/ban", errMsg: "no receiver specified"},
		{text: "/unban #amber_otter", command: UnbanCommand{ThreadID: "#amber_otter"}},
		{text: "/unban", errMsg: "no receiver specified"},
		{text: "/broadcast maintenance at noon", command: BroadcastCommand{Text: "maintenance at noon"}},
		{text: "/broadcast", errMsg: "message text is empty"},
		{text: "  /start  ", command: StartCommand{}},
		{text: "", errMsg: "empty message"},
		{text: "   ", errMsg: "empty message"},
		{text: "hello", errMsg: "unknown command: hello"},
		{text: "/frobnicate", errMsg: "unknown command: /frobnicate"},
	}
	for _, cs := range cases {
		command, err := ParseCommand(cs.text, id, nil)
		if cs.errMsg != "" {
			require.ErrorContains(t, err, cs.errMsg, "text %q", cs.text)
			continue
		}
		require.NoError(t, err, "text %q", cs.text)
		require.Equal(t, cs.command, command, "text %q", cs.text)
	}
}

func TestParseCommandReplyOverridesGrammar(t *testing.T) {
	t.Parallel()

	replyTo := MessageID(3)

	// Replying to a message always resolves through that message's thread,
	// even when the text would otherwise parse as a command.
	command, err := ParseCommand("/users", 17, &replyTo)
	require.NoError(t, err)
	require.Equal(t, ReplyCommand{ReplyMessageID: 3, MessageID: 17, Text: "/users"}, command)

	command, err = ParseCommand("  plain answer ", 18, &replyTo)
	require.NoError(t, err)
	require.Equal(t, ReplyCommand{ReplyMessageID: 3, MessageID: 18, Text: "plain answer"}, command)

	_, err = ParseCommand("   ", 19, &replyTo)
	require.ErrorContains(t, err, "empty message")
}
