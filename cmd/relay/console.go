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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/anonbot/relay/bot"
	"github.com/anonbot/relay/bot/model"
	cerror "github.com/anonbot/relay/pkg/errors"
)

// consoleTransport is a line-oriented stand-in for a real chat front end,
// useful for local runs. Outbound messages are printed with the chat id and
// the assigned message id; inbound lines are typed on stdin as
//
//	<login> <text...>
//	<login> !reply <message-id> <text...>
type consoleTransport struct {
	mu     sync.Mutex
	out    io.Writer
	nextID bot.MessageID

	chats     map[string]int64
	nextChat  int64
	usersSeen map[int64]string
}

func newConsoleTransport(out io.Writer) *consoleTransport {
	return &consoleTransport{
		out:       out,
		chats:     make(map[string]int64),
		usersSeen: make(map[int64]string),
	}
}

var _ bot.Transport = (*consoleTransport)(nil)

// SendMessage implements bot.Transport.
func (t *consoleTransport) SendMessage(
	_ context.Context, chatID int64, text string,
) (bot.MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	login := t.usersSeen[chatID]
	fmt.Fprintf(t.out, "-> @%s [message %d]\n%s\n", login, t.nextID, text)
	return t.nextID, nil
}

func (t *consoleTransport) allocMessageID() bot.MessageID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	return t.nextID
}

func (t *consoleTransport) chatOf(login string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if chatID, ok := t.chats[login]; ok {
		return chatID
	}
	t.nextChat++
	t.chats[login] = t.nextChat
	t.usersSeen[t.nextChat] = login
	return t.nextChat
}

// serveConsole runs the read-parse-dispatch loop until stdin closes or the
// context is cancelled. Command errors are rendered back the way the
// transport boundary requires: "Error: <message>.".
func serveConsole(
	ctx context.Context, transport *consoleTransport, dispatcher *bot.Dispatcher,
) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := handleLine(ctx, transport, dispatcher, line); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %s.\n", cerror.Message(err))
			}
		}
	}
}

func handleLine(
	ctx context.Context,
	transport *consoleTransport,
	dispatcher *bot.Dispatcher,
	line string,
) error {
	login, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	if login == "" || rest == "" {
		return cerror.ErrEmptyMessage.GenWithStackByArgs()
	}

	var replyTo *bot.MessageID
	if after, ok := strings.CutPrefix(rest, "!reply "); ok {
		idText, text, _ := strings.Cut(strings.TrimSpace(after), " ")
		id, err := strconv.ParseInt(idText, 10, 64)
		if err != nil {
			return cerror.ErrEmptyMessage.GenWithStackByArgs()
		}
		replyTo = &id
		rest = strings.TrimSpace(text)
		if rest == "" {
			return cerror.ErrEmptyMessage.GenWithStackByArgs()
		}
	}

	command, err := bot.ParseCommand(rest, transport.allocMessageID(), replyTo)
	if err != nil {
		return err
	}
	user := &model.User{Login: login, FirstName: login}
	chatID := transport.chatOf(login)
	log.Debug("dispatching console command",
		zap.String("login", login), zap.String("command", command.Name()))
	return dispatcher.Dispatch(ctx, user, chatID, command)
}
