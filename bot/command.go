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
	"strings"

	"github.com/anonbot/relay/bot/model"
	cerror "github.com/anonbot/relay/pkg/errors"
)

// MessageID identifies one transport message within a chat session.
type MessageID = int64

// Command is a typed request from a user to their own actor.
type Command interface {
	// Name is the command kind, for logs and metrics.
	Name() string
}

// StartCommand resumes a stopped user.
type StartCommand struct{}

// StopCommand suspends the user; only StartCommand is accepted afterwards.
type StopCommand struct{}

// HelpCommand requests the canned help text.
type HelpCommand struct{}

// UsersCommand lists all non-stopped logins.
type UsersCommand struct{}

// ThreadsCommand lists the user's randomly minted threads.
type ThreadsCommand struct{}

// RandomCommand opens a fully anonymous thread with a random peer and sends
// the first message.
type RandomCommand struct {
	MessageID MessageID
	Text      string
}

// SendCommand sends text into an existing thread, or opens a directed
// thread when the id is "@login"-shaped.
type SendCommand struct {
	ThreadID  model.ThreadID
	MessageID MessageID
	Text      string
}

// ReplyCommand resolves its thread through the message being replied to.
type ReplyCommand struct {
	ReplyMessageID MessageID
	MessageID      MessageID
	Text           string
}

// CloseCommand terminates a thread the user is allowed to close.
type CloseCommand struct {
	ThreadID model.ThreadID
}

// BanCommand terminates a semi-anonymous thread and bans its initiator.
type BanCommand struct {
	ThreadID model.ThreadID
}

// UnbanCommand lifts the ban recorded under the given thread id.
type UnbanCommand struct {
	ThreadID model.ThreadID
}

// BanlistCommand lists banned thread ids.
type BanlistCommand struct{}

// BroadcastCommand relays text to every user. Operator only.
type BroadcastCommand struct {
	Text string
}

// Name implements Command.
func (StartCommand) Name() string { return "start" }

// Name implements Command.
func (StopCommand) Name() string { return "stop" }

// Name implements Command.
func (HelpCommand) Name() string { return "help" }

// Name implements Command.
func (UsersCommand) Name() string { return "users" }

// Name implements Command.
func (ThreadsCommand) Name() string { return "threads" }

// Name implements Command.
func (RandomCommand) Name() string { return "random" }

// Name implements Command.
func (SendCommand) Name() string { return "send" }

// Name implements Command.
func (ReplyCommand) Name() string { return "reply" }

// Name implements Command.
func (CloseCommand) Name() string { return "close" }

// Name implements Command.
func (BanCommand) Name() string { return "ban" }

// Name implements Command.
func (UnbanCommand) Name() string { return "unban" }

// Name implements Command.
func (BanlistCommand) Name() string { return "banlist" }

// Name implements Command.
func (BroadcastCommand) Name() string { return "broadcast" }

// ParseCommand turns a raw transport message into a typed command. A message
// that replies to another message is always a ReplyCommand, whatever its
// leading token. Otherwise the first whitespace-delimited token selects the
// form.
func ParseCommand(text string, messageID MessageID, replyTo *MessageID) (Command, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, cerror.ErrEmptyMessage.GenWithStackByArgs()
	}
	if replyTo != nil {
		return ReplyCommand{
			ReplyMessageID: *replyTo,
			MessageID:      messageID,
			Text:           trimmed,
		}, nil
	}

	head, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)
	switch head {
	case "/start":
		return StartCommand{}, nil
	case "/stop":
		return StopCommand{}, nil
	case "/help":
		return HelpCommand{}, nil
	case "/users":
		return UsersCommand{}, nil
	case "/threads":
		return ThreadsCommand{}, nil
	case "/banlist":
		return BanlistCommand{}, nil
	case "/random":
		if rest == "" {
			return nil, cerror.ErrEmptyText.GenWithStackByArgs()
		}
		return RandomCommand{MessageID: messageID, Text: rest}, nil
	case "/send":
		threadID, text, _ := strings.Cut(rest, " ")
		if threadID == "" {
			return nil, cerror.ErrNoReceiver.GenWithStackByArgs()
		}
		if !model.IsDirect(threadID) && !model.IsMinted(threadID) {
			return nil, cerror.ErrBadThreadID.GenWithStackByArgs(threadID)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, cerror.ErrEmptyText.GenWithStackByArgs()
		}
		return SendCommand{ThreadID: threadID, MessageID: messageID, Text: text}, nil
	case "/close":
		if rest == "" {
			return nil, cerror.ErrNoReceiver.GenWithStackByArgs()
		}
		return CloseCommand{ThreadID: rest}, nil
	case "/ban":
		if rest == "" {
			return nil, cerror.ErrNoReceiver.GenWithStackByArgs()
		}
		return BanCommand{ThreadID: rest}, nil
	case "/unban":
		if rest == "" {
			return nil, cerror.ErrNoReceiver.GenWithStackByArgs()
		}
		return UnbanCommand{ThreadID: rest}, nil
	case "/broadcast":
		if rest == "" {
			return nil, cerror.ErrEmptyText.GenWithStackByArgs()
		}
		return BroadcastCommand{Text: rest}, nil
	default:
		return nil, cerror.ErrUnknownCommand.GenWithStackByArgs(head)
	}
}
