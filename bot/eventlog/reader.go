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
	"bufio"
	"io"

	"github.com/goccy/go-json"

	cerror "github.com/anonbot/relay/pkg/errors"
)

// maxRecordSize bounds a single serialized event line.
const maxRecordSize = 1024 * 1024

// Reader streams events out of a log, forward-only and not restartable.
// A record that fails to decode is fatal: the log is the single source of
// truth and a corrupt record means recovery cannot be trusted.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a Reader over the raw log bytes.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxRecordSize)
	return &Reader{scanner: scanner}
}

// Next returns the next event. It returns io.EOF after the last record and
// a decode error for any malformed record.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			return Event{}, cerror.WrapError(cerror.ErrEventDecode, err)
		}
		if err := event.Validate(); err != nil {
			return Event{}, err
		}
		return event, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, cerror.WrapError(cerror.ErrEventLogRead, err)
	}
	return Event{}, io.EOF
}

// ReadAll drains the reader. It is a convenience for replay and tests.
func ReadAll(r io.Reader) ([]Event, error) {
	reader := NewReader(r)
	var events []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
}
