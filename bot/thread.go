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
	"context"

	"go.uber.org/atomic"

	"github.com/anonbot/relay/bot/model"
	"github.com/anonbot/relay/pkg/actor"
)

// Action is a request one actor sends to a peer actor's action mailbox.
type Action interface {
	// Name is the action kind, for logs and metrics.
	Name() string
}

// StartAnonymousThreadAction installs the mirror half of a new thread at the
// peer. The initiator constructs both halves; see the pairing protocol.
type StartAnonymousThreadAction struct {
	Thread *Thread
}

// SendTextAction relays text into the peer's half of a thread.
type SendTextAction struct {
	ThreadID model.ThreadID
	Text     string
}

// TerminateThreadAction removes the peer's half of a thread.
type TerminateThreadAction struct {
	ThreadID model.ThreadID
}

// BroadcastAction relays operator text to the receiving user unconditionally.
type BroadcastAction struct {
	Text string
}

// Name implements Action.
func (StartAnonymousThreadAction) Name() string { return "start_anonymous_thread" }

// Name implements Action.
func (SendTextAction) Name() string { return "send_text" }

// Name implements Action.
func (TerminateThreadAction) Name() string { return "terminate_thread" }

// Name implements Action.
func (BroadcastAction) Name() string { return "broadcast" }

// UserHandle is the shared, routing-only view of a user actor: identity, the
// action mailbox peers talk to, and the stopped flag. It is the only object
// read concurrently by every actor; only the registry creates it and only
// the owning actor flips the flag.
type UserHandle struct {
	User    *model.User
	actions *actor.Mailbox[actor.Request[Action]]
	stopped *atomic.Bool
}

// Stopped reports whether the user suspended the bot.
func (h *UserHandle) Stopped() bool {
	return h.stopped.Load()
}

// SendAction delivers an action to the handle's actor and blocks until that
// actor has processed it. This is the cross-actor rendezvous the pairing
// protocol relies on; a self-addressed SendAction from within the owner's
// own processing loop deadlocks, which is why self-targeting commands are
// rejected before ever reaching here.
func (h *UserHandle) SendAction(ctx context.Context, action Action) error {
	req, fut := actor.NewRequest(action)
	if err := h.actions.SendB(ctx, req); err != nil {
		return err
	}
	return fut.Await()
}

// Thread is one endpoint's private view of a conversation. The peer holds
// the mirror endpoint with its own id and the complementary mode. A thread
// is owned exclusively by the actor that holds it and reaches the peer only
// through the routing handle.
type Thread struct {
	ID       model.ThreadID
	AnonMode model.AnonymityMode
	OtherID  model.ThreadID

	otherHandle *UserHandle
}

// OtherLogin is the peer's login. It is routing information, not something
// shown to the user unless the anonymity mode reveals it.
func (t *Thread) OtherLogin() string {
	return t.otherHandle.User.Login
}

func (t *Thread) sendText(ctx context.Context, text string) error {
	return t.otherHandle.SendAction(ctx, SendTextAction{ThreadID: t.OtherID, Text: text})
}

func (t *Thread) terminate(ctx context.Context) error {
	return t.otherHandle.SendAction(ctx, TerminateThreadAction{ThreadID: t.OtherID})
}
