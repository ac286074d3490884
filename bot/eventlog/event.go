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

// Package eventlog implements the durable side of the relay: an append-only
// log of newline-delimited JSON events, a forward-only reader used for
// replay, and a single-writer service that batches concurrent writes and
// reports durability back to callers. Events are the only source of truth
// for recovery; in-memory actor state is a cache of folded events.
package eventlog

import (
	"github.com/anonbot/relay/bot/model"
	cerror "github.com/anonbot/relay/pkg/errors"
)

// Event is one append-only fact. Exactly one variant is set; the wire form
// is externally tagged, one JSON object per line:
//
//	{"ThreadStarted":{"login":"alice",...}}
type Event struct {
	UserConnected         *UserConnectedEvent         `json:"UserConnected,omitempty"`
	ThreadStarted         *ThreadStartedEvent         `json:"ThreadStarted,omitempty"`
	ThreadMessageReceived *ThreadMessageReceivedEvent `json:"ThreadMessageReceived,omitempty"`
	ThreadTerminated      *ThreadTerminatedEvent      `json:"ThreadTerminated,omitempty"`
	UserBanned            *UserBannedEvent            `json:"UserBanned,omitempty"`
	UserUnbanned          *UserUnbannedEvent          `json:"UserUnbanned,omitempty"`
	UserStopped           *UserStoppedEvent           `json:"UserStopped,omitempty"`
	UserStarted           *UserStartedEvent           `json:"UserStarted,omitempty"`
}

// UserConnectedEvent records the first contact of a login. Replay creates
// the user's actor eagerly from it.
type UserConnectedEvent struct {
	User   model.User `json:"user"`
	ChatID int64      `json:"chat_id"`
}

// ThreadStartedEvent records one endpoint of a new thread. Pairing writes
// one such event per side, each owned by the login that holds the endpoint.
type ThreadStartedEvent struct {
	Login         string              `json:"login"`
	OtherLogin    string              `json:"other_login"`
	MyThreadID    model.ThreadID      `json:"my_thread_id"`
	OtherThreadID model.ThreadID      `json:"other_thread_id"`
	AnonMode      model.AnonymityMode `json:"anon_mode"`
}

// ThreadMessageReceivedEvent indexes a delivered or sent message under the
// thread it belongs to, so replies can resolve their thread context.
type ThreadMessageReceivedEvent struct {
	Login     string         `json:"login"`
	MessageID int64          `json:"message_id"`
	ThreadID  model.ThreadID `json:"thread_id"`
}

// ThreadTerminatedEvent removes both endpoints of a thread. It names both
// logins so replay can route it to the two reconstructed actors.
type ThreadTerminatedEvent struct {
	Login         string         `json:"login"`
	OtherLogin    string         `json:"other_login"`
	MyThreadID    model.ThreadID `json:"my_thread_id"`
	OtherThreadID model.ThreadID `json:"other_thread_id"`
}

// UserBannedEvent records a ban: the banned thread is removed and the
// banned login may not reopen an anonymous line to the owner.
type UserBannedEvent struct {
	Login          string         `json:"login"`
	BannedLogin    string         `json:"banned_login"`
	BannedThreadID model.ThreadID `json:"banned_thread_id"`
}

// UserUnbannedEvent lifts a ban.
type UserUnbannedEvent struct {
	Login         string `json:"login"`
	UnbannedLogin string `json:"unbanned_login"`
}

// UserStoppedEvent flips the login's stopped flag on.
type UserStoppedEvent struct {
	Login string `json:"login"`
}

// UserStartedEvent flips the login's stopped flag off.
type UserStartedEvent struct {
	Login string `json:"login"`
}

// Kind returns the variant name, mostly for logs and metrics.
func (e *Event) Kind() string {
	switch {
	case e.UserConnected != nil:
		return "UserConnected"
	case e.ThreadStarted != nil:
		return "ThreadStarted"
	case e.ThreadMessageReceived != nil:
		return "ThreadMessageReceived"
	case e.ThreadTerminated != nil:
		return "ThreadTerminated"
	case e.UserBanned != nil:
		return "UserBanned"
	case e.UserUnbanned != nil:
		return "UserUnbanned"
	case e.UserStopped != nil:
		return "UserStopped"
	case e.UserStarted != nil:
		return "UserStarted"
	}
	return ""
}

// Validate checks that exactly one variant is set.
func (e *Event) Validate() error {
	count := 0
	for _, set := range []bool{
		e.UserConnected != nil,
		e.ThreadStarted != nil,
		e.ThreadMessageReceived != nil,
		e.ThreadTerminated != nil,
		e.UserBanned != nil,
		e.UserUnbanned != nil,
		e.UserStopped != nil,
		e.UserStarted != nil,
	} {
		if set {
			count++
		}
	}
	switch count {
	case 1:
		return nil
	case 0:
		return cerror.ErrEventNoVariant.GenWithStackByArgs()
	default:
		return cerror.ErrEventMultipleVariants.GenWithStackByArgs()
	}
}
