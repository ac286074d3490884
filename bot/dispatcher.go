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
	"io"
	"sort"
	"sync"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/anonbot/relay/bot/eventlog"
	"github.com/anonbot/relay/bot/model"
	"github.com/anonbot/relay/pkg/actor"
	cerror "github.com/anonbot/relay/pkg/errors"
	"github.com/anonbot/relay/pkg/wordlist"
)

// Directory is the shared login to handle map every actor reads for peer
// lookup. Writers are the dispatcher only; it never hands out the raw map,
// which keeps the one-actor-per-login invariant enforceable in one place.
type Directory struct {
	mu      sync.RWMutex
	handles map[string]*UserHandle
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{handles: make(map[string]*UserHandle)}
}

// Get returns the handle registered for login, or nil.
func (d *Directory) Get(login string) *UserHandle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handles[login]
}

// Snapshot returns all handles, sorted by login.
func (d *Directory) Snapshot() []*UserHandle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	handles := make([]*UserHandle, 0, len(d.handles))
	for _, handle := range d.handles {
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool {
		return handles[i].User.Login < handles[j].User.Login
	})
	return handles
}

func (d *Directory) insert(login string, handle *UserHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles[login] = handle
}

// Dispatcher resolves a user login to its actor's command mailbox, lazily
// creating the actor on first contact, and surfaces command results back to
// the transport boundary.
type Dispatcher struct {
	transport     Transport
	events        *eventlog.Handle
	threadIDs     wordlist.Generator
	operatorLogin string

	mu       sync.Mutex
	commands map[string]*actor.Mailbox[actor.Request[Command]]

	directory *Directory
	actors    sync.WaitGroup
}

// NewDispatcher creates a dispatcher with an empty actor population.
func NewDispatcher(
	transport Transport,
	events *eventlog.Handle,
	threadIDs wordlist.Generator,
	operatorLogin string,
) *Dispatcher {
	return &Dispatcher{
		transport:     transport,
		events:        events,
		threadIDs:     threadIDs,
		operatorLogin: operatorLogin,
		commands:      make(map[string]*actor.Mailbox[actor.Request[Command]]),
		directory:     NewDirectory(),
	}
}

// Dispatch forwards one typed command to the addressed user's actor and
// blocks until the actor replied. On first contact it creates the actor and
// only admits the connection once the UserConnected event is durable.
func (d *Dispatcher) Dispatch(
	ctx context.Context, user *model.User, chatID int64, command Command,
) error {
	mailbox, tracker := d.getOrCreate(user, chatID)

	req, fut := actor.NewRequest(command)
	if err := mailbox.SendB(ctx, req); err != nil {
		return err
	}
	if tracker != nil {
		// NB: make sure the UserConnected event has been written to disk
		// before replying.
		if err := tracker.Wait(); err != nil {
			return err
		}
	}
	return fut.Await()
}

// getOrCreate uses double-checked insertion semantics: map mutation happens
// under the single mutex, so exactly one actor is ever created per login no
// matter how many first-contact commands race.
func (d *Dispatcher) getOrCreate(
	user *model.User, chatID int64,
) (*actor.Mailbox[actor.Request[Command]], *eventlog.Tracker) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if mailbox, ok := d.commands[user.Login]; ok {
		return mailbox, nil
	}

	tracker := d.events.Write(eventlog.Event{
		UserConnected: &eventlog.UserConnectedEvent{User: *user, ChatID: chatID},
	})
	mailbox := d.spawn(user, chatID)
	return mailbox, &tracker
}

func (d *Dispatcher) spawn(
	user *model.User, chatID int64,
) *actor.Mailbox[actor.Request[Command]] {
	commands := actor.NewMailbox[actor.Request[Command]](actor.DefaultMailboxCap)
	actions := actor.NewMailbox[actor.Request[Action]](actor.DefaultMailboxCap)
	handle := &UserHandle{
		User:    user,
		actions: actions,
		stopped: atomic.NewBool(false),
	}
	userActor := newUserActor(
		d.transport, d.events, d.threadIDs, d.operatorLogin,
		chatID, handle, d.directory, commands, actions,
	)

	d.commands[user.Login] = commands
	d.directory.insert(user.Login, handle)
	d.startActor(userActor)

	log.Info("user connected", zap.String("login", user.Login))
	return commands
}

func (d *Dispatcher) startActor(a *userActor) {
	activeActors.Inc()
	d.actors.Add(1)
	go func() {
		defer d.actors.Done()
		a.run(context.Background())
	}()
}

// Directory exposes the shared read-only view of all actors.
func (d *Dispatcher) Directory() *Directory {
	return d.directory
}

// Close retires every actor by closing both mailboxes and waits for the
// population to drain. No Dispatch may race with Close.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	for login, commands := range d.commands {
		commands.Close()
		d.directory.Get(login).actions.Close()
	}
	d.mu.Unlock()
	d.actors.Wait()
}

// Builder reconstructs the whole actor population from the event log before
// any live traffic is admitted. Replay is a left-fold over the event
// sequence; each event is routed to the in-memory actor of the login it
// names, and an unknown login fails the startup.
type Builder struct {
	dispatcher *Dispatcher
	actors     map[string]*userActor
}

// NewBuilder creates a Builder for an empty population.
func NewBuilder(
	transport Transport,
	events *eventlog.Handle,
	threadIDs wordlist.Generator,
	operatorLogin string,
) *Builder {
	return &Builder{
		dispatcher: NewDispatcher(transport, events, threadIDs, operatorLogin),
		actors:     make(map[string]*userActor),
	}
}

// FromLog folds the entire event log. Any decode failure or inconsistent
// event aborts startup; a corrupt log must not boot a half-wrong population.
func (b *Builder) FromLog(r io.Reader) error {
	reader := eventlog.NewReader(r)
	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := b.apply(&event); err != nil {
			return err
		}
		count++
	}
	log.Info("replayed event log", zap.Int("events", count),
		zap.Int("users", len(b.actors)))
	return nil
}

func (b *Builder) apply(event *eventlog.Event) error {
	switch {
	case event.UserConnected != nil:
		return b.applyUserConnected(event.UserConnected)
	case event.ThreadStarted != nil:
		ev := event.ThreadStarted
		ua, err := b.actorOf(ev.Login)
		if err != nil {
			return err
		}
		return ua.applyThreadStarted(ev)
	case event.ThreadMessageReceived != nil:
		ev := event.ThreadMessageReceived
		ua, err := b.actorOf(ev.Login)
		if err != nil {
			return err
		}
		ua.applyThreadMessageReceived(ev)
		return nil
	case event.ThreadTerminated != nil:
		// Touches exactly the two logins named in the event.
		ev := event.ThreadTerminated
		mine, err := b.actorOf(ev.Login)
		if err != nil {
			return err
		}
		if err := mine.applyThreadTerminated(ev.MyThreadID); err != nil {
			return err
		}
		other, err := b.actorOf(ev.OtherLogin)
		if err != nil {
			return err
		}
		return other.applyThreadTerminated(ev.OtherThreadID)
	case event.UserBanned != nil:
		ev := event.UserBanned
		ua, err := b.actorOf(ev.Login)
		if err != nil {
			return err
		}
		return ua.applyUserBanned(ev)
	case event.UserUnbanned != nil:
		ev := event.UserUnbanned
		ua, err := b.actorOf(ev.Login)
		if err != nil {
			return err
		}
		return ua.applyUserUnbanned(ev)
	case event.UserStopped != nil:
		ua, err := b.actorOf(event.UserStopped.Login)
		if err != nil {
			return err
		}
		ua.applyUserStopped()
		return nil
	case event.UserStarted != nil:
		ua, err := b.actorOf(event.UserStarted.Login)
		if err != nil {
			return err
		}
		ua.applyUserStarted()
		return nil
	}
	return cerror.ErrReplayBadEvent.GenWithStackByArgs("empty event")
}

func (b *Builder) actorOf(login string) (*userActor, error) {
	userActor, ok := b.actors[login]
	if !ok {
		return nil, cerror.ErrReplayUnknownUser.GenWithStackByArgs(login)
	}
	return userActor, nil
}

func (b *Builder) applyUserConnected(ev *eventlog.UserConnectedEvent) error {
	d := b.dispatcher
	login := ev.User.Login
	if _, ok := b.actors[login]; ok {
		return cerror.ErrReplayBadEvent.GenWithStackByArgs(
			"duplicate UserConnected for @" + login)
	}

	user := ev.User
	commands := actor.NewMailbox[actor.Request[Command]](actor.DefaultMailboxCap)
	actions := actor.NewMailbox[actor.Request[Action]](actor.DefaultMailboxCap)
	handle := &UserHandle{
		User:    &user,
		actions: actions,
		stopped: atomic.NewBool(false),
	}
	b.actors[login] = newUserActor(
		d.transport, d.events, d.threadIDs, d.operatorLogin,
		ev.ChatID, handle, d.directory, commands, actions,
	)
	d.commands[login] = commands
	d.directory.insert(login, handle)
	return nil
}

// Build spawns every reconstructed actor and returns the ready dispatcher.
// All actors start before any live traffic flows.
func (b *Builder) Build() *Dispatcher {
	for _, userActor := range b.actors {
		b.dispatcher.startActor(userActor)
	}
	return b.dispatcher
}
