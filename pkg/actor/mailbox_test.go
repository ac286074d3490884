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
	"testing"
	"time"

	cerror "github.com/anonbot/relay/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMailboxSendAndReceive(t *testing.T) {
	t.Parallel()
	mb := NewMailbox[int](2)

	require.Equal(t, 0, mb.Len())
	require.Nil(t, mb.Send(1))
	require.Nil(t, mb.Send(2))
	require.Equal(t, 2, mb.Len())

	// Mailbox has a bounded capacity.
	err := mb.Send(3)
	require.True(t, cerror.Is(err, cerror.ErrMailboxFull))

	require.Equal(t, 1, <-mb.Receive())
	require.Equal(t, 2, <-mb.Receive())
	require.Equal(t, 0, mb.Len())
}

func TestMailboxSendBBlocksUntilDrained(t *testing.T) {
	t.Parallel()
	mb := NewMailbox[int](1)
	require.Nil(t, mb.Send(1))

	sent := make(chan struct{})
	go func() {
		require.Nil(t, mb.SendB(context.Background(), 2))
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("SendB must block on a full mailbox")
	case <-time.After(50 * time.Millisecond):
	}

	require.Equal(t, 1, <-mb.Receive())
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("SendB must resume once the mailbox drains")
	}
}

func TestMailboxSendBCancellation(t *testing.T) {
	t.Parallel()
	mb := NewMailbox[int](1)
	require.Nil(t, mb.Send(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, mb.SendB(ctx, 2))
}

func TestMailboxCloseEndsReceive(t *testing.T) {
	t.Parallel()
	mb := NewMailbox[int](1)
	require.Nil(t, mb.Send(1))
	mb.Close()

	v, ok := <-mb.Receive()
	require.True(t, ok)
	require.Equal(t, 1, v)
	_, ok = <-mb.Receive()
	require.False(t, ok)
}

func TestAskReplyResolvesFuture(t *testing.T) {
	t.Parallel()
	req, fut := NewRequest("ping")
	require.Equal(t, "ping", req.Payload)

	go req.Reply(nil)
	require.Nil(t, fut.Await())
}

func TestAskReplyCarriesError(t *testing.T) {
	t.Parallel()
	req, fut := NewRequest(42)
	want := cerror.ErrSendToSelf.FastGenByArgs()
	req.Reply(want)
	require.Equal(t, want, fut.Await())
}
