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
	"github.com/pingcap/log"
)

// Request couples a payload with a oneshot reply channel. The consumer must
// call Reply exactly once for every request it dequeues.
type Request[T any] struct {
	Payload T
	reply   chan error
}

// NewRequest builds a request envelope and the future its sender awaits.
func NewRequest[T any](payload T) (Request[T], Future) {
	reply := make(chan error, 1)
	return Request[T]{Payload: payload, reply: reply}, Future{reply: reply}
}

// Reply resolves the sender's future. It never blocks.
func (r Request[T]) Reply(err error) {
	r.reply <- err
}

// Future is the receiving half of the ask pattern: exactly one reply, no
// cancellation. A reply channel that is closed without a reply means the
// serving actor died mid-request, which is an internal consistency
// violation, not a recoverable condition.
type Future struct {
	reply <-chan error
}

// Await blocks until the request has been processed and returns its result.
func (f Future) Await() error {
	err, ok := <-f.reply
	if !ok {
		log.Panic("reply channel dropped without a reply")
	}
	return err
}
