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

const startMessage = `Hello! This is an anonymous chatting bot. Quick start guide:

* Use command ` + "`/send @login Hello!`" + ` to send an anonymous message to a particular user;
* Use command ` + "`/random Hello!`" + ` to start an anonymous thread with a random user;
* Use command ` + "`/users`" + ` to list all available users.

For more commands, use ` + "`/help`" + `.`

const helpMessage = `Available commands:
* ` + "`/send [receiver] [message]`" + ` - send a message. Receiver can either be a @login or a #thread.
* ` + "`/random [message]`" + ` - send a message to a random user, starting a new thread.
* ` + "`/users`" + ` - list available users.
* ` + "`/threads`" + ` - list active anonymous threads.
* ` + "`/close [thread]`" + ` - close a thread you started.
* ` + "`/ban [thread]`" + ` - ban the anonymous sender behind a thread.
* ` + "`/unban [thread]`" + ` - lift a ban recorded under a thread.
* ` + "`/banlist`" + ` - list banned threads.
* ` + "`/stop`" + ` - stop the bot; your threads survive until you ` + "`/start`" + ` again.
* ` + "`/help`" + ` - show this message.

Hints:
* You can reply to a message instead of using the ` + "`/send`" + ` command.`

const stopMessage = `The bot is stopped. Incoming messages will be rejected until you use ` + "`/start`" + ` again.`
