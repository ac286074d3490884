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

import "context"

// Transport is the chat front end the relay delivers messages through. The
// relay never retries a failed send; the error surfaces to the command that
// triggered the delivery. Implementations must be safe for concurrent use,
// every user actor calls into the same transport.
type Transport interface {
	// SendMessage delivers text to a chat session and returns the id the
	// transport assigned to the delivered message.
	SendMessage(ctx context.Context, chatID int64, text string) (MessageID, error)
}
