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

package wordlist

import "sync"

// MockGenerator hands out a fixed sequence of ids, for deterministic tests.
type MockGenerator struct {
	mu  sync.Mutex
	ids []string
	pos int
}

// NewMockGenerator creates a MockGenerator that cycles through ids.
func NewMockGenerator(ids ...string) *MockGenerator {
	return &MockGenerator{ids: ids}
}

// NewThreadID implements Generator.
func (g *MockGenerator) NewThreadID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.pos%len(g.ids)]
	g.pos++
	return id
}
