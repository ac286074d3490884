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

	"github.com/goccy/go-json"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	cerror "github.com/anonbot/relay/pkg/errors"
)

// maxBatchSize caps how many events one physical write may coalesce.
const maxBatchSize = 1000

// requestQueueCap is the size of the service's request funnel. Senders block
// when it is full, like any other mailbox.
const requestQueueCap = 256

// Syncer is the durable medium under the log: every batch is written and
// synced before callers are acknowledged. *os.File satisfies it.
type Syncer interface {
	Write(p []byte) (int, error)
	Sync() error
}

type request struct {
	events []Event
	result chan error
}

// Handle submits events to the service from any goroutine. All handles feed
// the same single-writer funnel. Close releases the service; no Write may
// follow or be in flight.
type Handle struct {
	requests chan request
}

// Tracker is awaited to learn whether the submitted events reached durable
// storage. Callers must not take any externally observable step that depends
// on durability before Wait returns nil.
type Tracker struct {
	result <-chan error
}

// Wait blocks until the write that covers this tracker's events completed.
func (t Tracker) Wait() error {
	err, ok := <-t.result
	if !ok {
		log.Panic("event service dropped a durability tracker")
	}
	return err
}

// Write submits one event.
func (h *Handle) Write(event Event) Tracker {
	return h.submit([]Event{event})
}

// WriteBatch submits several events that must land in the log in the given
// relative order.
func (h *Handle) WriteBatch(events []Event) Tracker {
	return h.submit(events)
}

func (h *Handle) submit(events []Event) Tracker {
	result := make(chan error, 1)
	h.requests <- request{events: events, result: result}
	return Tracker{result: result}
}

// Close shuts the service down once every pending request is flushed.
func (h *Handle) Close() {
	close(h.requests)
}

// Service is the single serialized writer of the event log. It batches
// concurrent write requests into one flushed write per burst and fans the
// shared result out to every caller in the batch.
type Service struct {
	requests chan request
	out      Syncer
}

// NewService creates a Service writing to out and the Handle used to feed
// it. Run must be started on its own goroutine.
func NewService(out Syncer) (*Service, *Handle) {
	requests := make(chan request, requestQueueCap)
	return &Service{requests: requests, out: out}, &Handle{requests: requests}
}

// Run serves write requests until the handle is closed. The loop blocks for
// at least one request, drains whatever else is already queued without
// blocking, performs one synced write of the coalesced batch, and reports
// the shared result to every caller.
func (s *Service) Run() {
	for {
		first, ok := <-s.requests
		if !ok {
			log.Info("event service terminated")
			return
		}

		events := first.events
		results := []chan error{first.result}
		closed := false
	drain:
		for len(events) < maxBatchSize {
			select {
			case more, ok := <-s.requests:
				if !ok {
					closed = true
					break drain
				}
				events = append(events, more.events...)
				results = append(results, more.result)
			default:
				break drain
			}
		}

		err := s.writeEvents(events)
		if err != nil {
			log.Error("failed to write events",
				zap.Int("count", len(events)), zap.Error(err))
			writeFailuresCounter.Inc()
		} else {
			log.Debug("wrote events to log", zap.Int("count", len(events)))
			eventsWrittenCounter.Add(float64(len(events)))
			batchSizeHistogram.Observe(float64(len(events)))
		}
		// Every caller in the batch shares one result value; a failed batch
		// is a failed command for each of them, never retried here.
		for _, result := range results {
			result <- err
		}

		if closed {
			log.Info("event service terminated")
			return
		}
	}
}

func (s *Service) writeEvents(events []Event) error {
	var buf bytes.Buffer
	for i := range events {
		record, err := json.Marshal(&events[i])
		if err != nil {
			return cerror.WrapError(cerror.ErrEventEncode, err)
		}
		buf.Write(record)
		buf.WriteByte('\n')
	}
	if _, err := s.out.Write(buf.Bytes()); err != nil {
		return cerror.WrapError(cerror.ErrEventLogWrite, err)
	}
	if err := s.out.Sync(); err != nil {
		return cerror.WrapError(cerror.ErrEventLogWrite, err)
	}
	return nil
}
