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
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memSyncer is an in-memory Syncer. Each Sync records how many records the
// since-last-sync writes carried, so tests can observe batching.
type memSyncer struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	pending int
	batches []int
	err     error

	// When set, Sync signals entered once and then blocks until released
	// is closed.
	entered  chan struct{}
	released chan struct{}
}

func (s *memSyncer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.pending += bytes.Count(p, []byte{'\n'})
	return s.buf.Write(p)
}

func (s *memSyncer) Sync() error {
	s.mu.Lock()
	entered, released := s.entered, s.released
	s.entered = nil
	s.mu.Unlock()
	if entered != nil {
		close(entered)
		<-released
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, s.pending)
	s.pending = 0
	return nil
}

// fail makes every following Write fail. Writes already buffered are
// unaffected, so a batch gated inside Sync still completes.
func (s *memSyncer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *memSyncer) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func (s *memSyncer) batchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.batches...)
}

func startService(t *testing.T, syncer *memSyncer) *Handle {
	service, handle := NewService(syncer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.Run()
	}()
	t.Cleanup(func() {
		handle.Close()
		<-done
	})
	return handle
}

func TestServiceWritesInSubmissionOrder(t *testing.T) {
	syncer := &memSyncer{}
	handle := startService(t, syncer)

	tracker := handle.WriteBatch([]Event{
		{UserStarted: &UserStartedEvent{Login: "alice"}},
		{UserStopped: &UserStoppedEvent{Login: "alice"}},
	})
	require.NoError(t, tracker.Wait())
	require.NoError(t, handle.Write(
		Event{UserStarted: &UserStartedEvent{Login: "bob"}}).Wait())

	events, err := ReadAll(bytes.NewReader(syncer.bytes()))
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "alice", events[0].UserStarted.Login)
	require.Equal(t, "alice", events[1].UserStopped.Login)
	require.Equal(t, "bob", events[2].UserStarted.Login)
}

func TestServiceCoalescesQueuedWrites(t *testing.T) {
	syncer := &memSyncer{
		entered:  make(chan struct{}),
		released: make(chan struct{}),
	}
	entered := syncer.entered
	handle := startService(t, syncer)

	first := handle.Write(Event{UserStarted: &UserStartedEvent{Login: "alice"}})
	// The service is now inside the first Sync; everything submitted here
	// queues up behind it and must land in one coalesced batch.
	<-entered
	trackers := []Tracker{
		handle.Write(Event{UserStopped: &UserStoppedEvent{Login: "alice"}}),
		handle.Write(Event{UserStarted: &UserStartedEvent{Login: "bob"}}),
		handle.WriteBatch([]Event{
			{UserStopped: &UserStoppedEvent{Login: "bob"}},
			{UserStarted: &UserStartedEvent{Login: "carol"}},
		}),
	}
	close(syncer.released)

	require.NoError(t, first.Wait())
	for _, tracker := range trackers {
		require.NoError(t, tracker.Wait())
	}
	require.Equal(t, []int{1, 4}, syncer.batchSizes())

	events, err := ReadAll(bytes.NewReader(syncer.bytes()))
	require.NoError(t, err)
	require.Len(t, events, 5)
}

func TestServiceFansSharedFailureOut(t *testing.T) {
	syncer := &memSyncer{
		entered:  make(chan struct{}),
		released: make(chan struct{}),
	}
	entered := syncer.entered
	handle := startService(t, syncer)

	first := handle.Write(Event{UserStarted: &UserStartedEvent{Login: "alice"}})
	<-entered
	second := handle.Write(Event{UserStopped: &UserStoppedEvent{Login: "alice"}})
	third := handle.Write(Event{UserStarted: &UserStartedEvent{Login: "bob"}})
	syncer.fail(errors.New("disk full"))
	close(syncer.released)

	// The gated batch still succeeds; the coalesced follow-up batch fails
	// as a whole and every caller in it sees the same error.
	require.NoError(t, first.Wait())
	err := second.Wait()
	require.ErrorContains(t, err, "failed to write events to log")
	require.ErrorContains(t, third.Wait(), "failed to write events to log")
}

func TestServiceStopsWhenHandleCloses(t *testing.T) {
	syncer := &memSyncer{}
	service, handle := NewService(syncer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.Run()
	}()

	tracker := handle.Write(Event{UserStarted: &UserStartedEvent{Login: "alice"}})
	require.NoError(t, tracker.Wait())
	handle.Close()
	<-done

	events, err := ReadAll(bytes.NewReader(syncer.bytes()))
	require.NoError(t, err)
	require.Len(t, events, 1)
}
