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

package actor

import (
	"context"

	cerror "github.com/anonbot/relay/pkg/errors"
)

// DefaultMailboxCap is the capacity of user actor mailboxes. A full mailbox
// suspends the sender, propagating backpressure from a slow actor to its
// peers and to the dispatcher.
const DefaultMailboxCap = 100

var errMailboxFull = cerror.ErrMailboxFull.FastGenByArgs()

// Mailbox delivers messages to exactly one consumer goroutine.
// It is safe for concurrent producers.
type Mailbox[T any] struct {
	ch chan T
}

// NewMailbox creates a fixed capacity mailbox.
func NewMailbox[T any](cap int) *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, cap)}
}

// Send sends a message without blocking, returns ErrMailboxFull when the
// mailbox is full.
func (m *Mailbox[T]) Send(msg T) error {
	select {
	case m.ch <- msg:
		return nil
	default:
		return errMailboxFull
	}
}

// SendB sends a message, blocking while the mailbox is full.
// It may return context.Canceled or context.DeadlineExceeded.
func (m *Mailbox[T]) SendB(ctx context.Context, msg T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m.ch <- msg:
		return nil
	}
}

// Receive exposes the consuming end of the mailbox so the owning actor can
// select over several mailboxes at once. The channel yields no more values
// after Close.
func (m *Mailbox[T]) Receive() <-chan T {
	return m.ch
}

// Len returns the number of queued messages.
func (m *Mailbox[T]) Len() int {
	return len(m.ch)
}

// Close closes the mailbox. No Send may be in flight or follow; closing is
// the registry's way to retire an actor once all producers are gone.
func (m *Mailbox[T]) Close() {
	close(m.ch)
}
