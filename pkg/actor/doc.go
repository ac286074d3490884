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

// Package actor provides the message-passing primitives the relay core is
// built on: a bounded multi-producer single-consumer mailbox, and the ask
// pattern (a request coupled with a oneshot reply) used for command
// dispatch, peer actions and durability tracking alike.
//
// Every user actor owns two mailboxes and drains them from a single
// goroutine, so mailbox consumers never need locking. Producers block on
// SendB when a mailbox is full, which is the only backpressure mechanism
// between actors.
package actor
