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
	"sync"
)

// Delivery is one message recorded by MockTransport.
type Delivery struct {
	ChatID    int64
	MessageID MessageID
	Text      string
}

// MockTransport records deliveries instead of sending them, for tests.
type MockTransport struct {
	mu         sync.Mutex
	nextID     MessageID
	deliveries []Delivery
	err        error
}

var _ Transport = (*MockTransport)(nil)

// NewMockTransport creates a MockTransport assigning message ids from 1.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// SendMessage implements Transport.
func (t *MockTransport) SendMessage(
	_ context.Context, chatID int64, text string,
) (MessageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return 0, t.err
	}
	t.nextID++
	t.deliveries = append(t.deliveries, Delivery{
		ChatID:    chatID,
		MessageID: t.nextID,
		Text:      text,
	})
	return t.nextID, nil
}

// InjectError makes every following SendMessage fail with err; nil restores
// normal operation.
func (t *MockTransport) InjectError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Deliveries returns a copy of everything sent so far.
func (t *MockTransport) Deliveries() []Delivery {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Delivery(nil), t.deliveries...)
}

// ChatTexts returns the texts delivered to one chat session, in order.
func (t *MockTransport) ChatTexts(chatID int64) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var texts []string
	for _, d := range t.deliveries {
		if d.ChatID == chatID {
			texts = append(texts, d.Text)
		}
	}
	return texts
}
