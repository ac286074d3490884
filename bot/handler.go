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
	"fmt"
	"math/rand"
	"sort"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/anonbot/relay/bot/eventlog"
	"github.com/anonbot/relay/bot/model"
	"github.com/anonbot/relay/pkg/actor"
	cerror "github.com/anonbot/relay/pkg/errors"
	"github.com/anonbot/relay/pkg/wordlist"
)

// userActor owns the conversational state of one user and is the only
// goroutine that mutates it. It drains two mailboxes: commands from the
// user's own transport session and actions from peer actors. Exactly one
// request is in flight at a time; the actor never re-enters its own loop
// while awaiting a peer or the event log.
type userActor struct {
	transport     Transport
	events        *eventlog.Handle
	threadIDs     wordlist.Generator
	operatorLogin string

	chatID    int64
	handle    *UserHandle
	directory *Directory

	commands *actor.Mailbox[actor.Request[Command]]
	actions  *actor.Mailbox[actor.Request[Action]]

	threads      map[model.ThreadID]*Thread
	messageIndex map[MessageID]model.ThreadID
	banlist      map[string]model.ThreadID
}

func newUserActor(
	transport Transport,
	events *eventlog.Handle,
	threadIDs wordlist.Generator,
	operatorLogin string,
	chatID int64,
	handle *UserHandle,
	directory *Directory,
	commands *actor.Mailbox[actor.Request[Command]],
	actions *actor.Mailbox[actor.Request[Action]],
) *userActor {
	return &userActor{
		transport:     transport,
		events:        events,
		threadIDs:     threadIDs,
		operatorLogin: operatorLogin,
		chatID:        chatID,
		handle:        handle,
		directory:     directory,
		commands:      commands,
		actions:       actions,
		threads:       make(map[model.ThreadID]*Thread),
		messageIndex:  make(map[MessageID]model.ThreadID),
		banlist:       make(map[string]model.ThreadID),
	}
}

// run processes requests until both mailboxes are closed. Selection across
// the two mailboxes is fair: when both are ready either may be served first.
func (a *userActor) run(ctx context.Context) {
	commands := a.commands.Receive()
	actions := a.actions.Receive()
	for commands != nil || actions != nil {
		select {
		case req, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			err := a.handleCommand(ctx, req.Payload)
			commandsProcessed.WithLabelValues(req.Payload.Name(), outcome(err)).Inc()
			req.Reply(err)
		case req, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			err := a.handleAction(ctx, req.Payload)
			actionsProcessed.WithLabelValues(req.Payload.Name(), outcome(err)).Inc()
			req.Reply(err)
		}
	}
	activeActors.Dec()
	log.Debug("user actor retired", zap.String("login", a.handle.User.Login))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (a *userActor) handleCommand(ctx context.Context, command Command) error {
	if a.handle.Stopped() {
		if _, ok := command.(StartCommand); !ok {
			return cerror.ErrBotStopped.GenWithStackByArgs()
		}
	}
	switch cmd := command.(type) {
	case StartCommand:
		return a.handleStart(ctx)
	case StopCommand:
		return a.handleStop(ctx)
	case HelpCommand:
		_, err := a.sendToSelf(ctx, helpMessage)
		return err
	case UsersCommand:
		return a.handleUsers(ctx)
	case ThreadsCommand:
		return a.handleThreads(ctx)
	case RandomCommand:
		return a.handleRandom(ctx, cmd.MessageID, cmd.Text)
	case SendCommand:
		return a.handleSend(ctx, cmd.ThreadID, cmd.MessageID, cmd.Text)
	case ReplyCommand:
		return a.handleReply(ctx, cmd.ReplyMessageID, cmd.MessageID, cmd.Text)
	case CloseCommand:
		return a.handleClose(ctx, cmd.ThreadID)
	case BanCommand:
		return a.handleBan(ctx, cmd.ThreadID)
	case UnbanCommand:
		return a.handleUnban(ctx, cmd.ThreadID)
	case BanlistCommand:
		return a.handleBanlist(ctx)
	case BroadcastCommand:
		return a.handleBroadcast(ctx, cmd.Text)
	}
	log.Panic("unhandled command variant", zap.String("command", command.Name()))
	return nil
}

func (a *userActor) handleStart(ctx context.Context) error {
	a.handle.stopped.Store(false)
	tracker := a.events.Write(eventlog.Event{
		UserStarted: &eventlog.UserStartedEvent{Login: a.handle.User.Login},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	_, err := a.sendToSelf(ctx, startMessage)
	return err
}

func (a *userActor) handleStop(ctx context.Context) error {
	a.handle.stopped.Store(true)
	tracker := a.events.Write(eventlog.Event{
		UserStopped: &eventlog.UserStoppedEvent{Login: a.handle.User.Login},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	_, err := a.sendToSelf(ctx, stopMessage)
	return err
}

func (a *userActor) handleUsers(ctx context.Context) error {
	var names []string
	for _, handle := range a.directory.Snapshot() {
		if handle.Stopped() {
			continue
		}
		names = append(names, handle.User.DisplayName())
	}
	sort.Strings(names)
	_, err := a.sendToSelf(ctx, formatList("Available users:", names))
	return err
}

func (a *userActor) handleThreads(ctx context.Context) error {
	var ids []string
	for id := range a.threads {
		if model.IsMinted(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		_, err := a.sendToSelf(ctx, "There are no active threads.")
		return err
	}
	sort.Strings(ids)
	_, err := a.sendToSelf(ctx, formatList("Active threads:", ids))
	return err
}

func (a *userActor) handleRandom(ctx context.Context, messageID MessageID, text string) error {
	otherLogin, err := a.pickRandomPeer()
	if err != nil {
		return err
	}

	myThreadID := a.threadIDs.NewThreadID()
	otherThreadID := a.threadIDs.NewThreadID()
	err = a.createThread(ctx, myThreadID, otherThreadID, otherLogin, model.AnonModeBoth, model.AnonModeBoth)
	if err != nil {
		return err
	}
	a.messageIndex[messageID] = myThreadID

	tracker := a.events.WriteBatch([]eventlog.Event{
		{ThreadStarted: &eventlog.ThreadStartedEvent{
			Login:         a.handle.User.Login,
			OtherLogin:    otherLogin,
			MyThreadID:    myThreadID,
			OtherThreadID: otherThreadID,
			AnonMode:      model.AnonModeBoth,
		}},
		{ThreadMessageReceived: &eventlog.ThreadMessageReceivedEvent{
			Login:     a.handle.User.Login,
			MessageID: messageID,
			ThreadID:  myThreadID,
		}},
	})
	// Durable before visible: the peer must not observe a message whose
	// thread could vanish on crash recovery.
	if err := tracker.Wait(); err != nil {
		return err
	}
	if err := a.threads[myThreadID].sendText(ctx, text); err != nil {
		return err
	}

	ackID, err := a.sendToSelf(ctx,
		fmt.Sprintf("Started a new anonymous thread %s.", myThreadID))
	if err != nil {
		return err
	}
	a.messageIndex[ackID] = myThreadID
	return a.events.Write(eventlog.Event{
		ThreadMessageReceived: &eventlog.ThreadMessageReceivedEvent{
			Login:     a.handle.User.Login,
			MessageID: ackID,
			ThreadID:  myThreadID,
		},
	}).Wait()
}

func (a *userActor) pickRandomPeer() (string, error) {
	var logins []string
	for _, handle := range a.directory.Snapshot() {
		if handle.User.Login != a.handle.User.Login {
			logins = append(logins, handle.User.Login)
		}
	}
	if len(logins) == 0 {
		return "", cerror.ErrNoOtherUsers.GenWithStackByArgs()
	}
	return logins[rand.Intn(len(logins))], nil
}

func (a *userActor) handleSend(
	ctx context.Context, threadID model.ThreadID, messageID MessageID, text string,
) error {
	var events []eventlog.Event

	if _, ok := a.threads[threadID]; !ok {
		if !model.IsDirect(threadID) {
			return cerror.ErrUnknownThread.GenWithStackByArgs(threadID)
		}
		otherLogin := model.DirectTarget(threadID)
		if otherLogin == a.handle.User.Login {
			return cerror.ErrSendToSelf.GenWithStackByArgs()
		}
		otherThreadID := a.threadIDs.NewThreadID()
		err := a.createThread(ctx, threadID, otherThreadID, otherLogin, model.AnonModeMe, model.AnonModeThem)
		if err != nil {
			return err
		}
		events = append(events, eventlog.Event{
			ThreadStarted: &eventlog.ThreadStartedEvent{
				Login:         a.handle.User.Login,
				OtherLogin:    otherLogin,
				MyThreadID:    threadID,
				OtherThreadID: otherThreadID,
				AnonMode:      model.AnonModeMe,
			},
		})
	}

	a.messageIndex[messageID] = threadID
	events = append(events, eventlog.Event{
		ThreadMessageReceived: &eventlog.ThreadMessageReceivedEvent{
			Login:     a.handle.User.Login,
			MessageID: messageID,
			ThreadID:  threadID,
		},
	})
	if err := a.events.WriteBatch(events).Wait(); err != nil {
		return err
	}
	return a.threads[threadID].sendText(ctx, text)
}

func (a *userActor) handleReply(
	ctx context.Context, replyMessageID, messageID MessageID, text string,
) error {
	threadID, ok := a.messageIndex[replyMessageID]
	if !ok {
		return cerror.ErrReplyNoThread.GenWithStackByArgs()
	}
	thread, ok := a.threads[threadID]
	if !ok {
		return cerror.ErrThreadGone.GenWithStackByArgs()
	}

	a.messageIndex[messageID] = threadID
	tracker := a.events.Write(eventlog.Event{
		ThreadMessageReceived: &eventlog.ThreadMessageReceivedEvent{
			Login:     a.handle.User.Login,
			MessageID: messageID,
			ThreadID:  threadID,
		},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	return thread.sendText(ctx, text)
}

func (a *userActor) handleClose(ctx context.Context, threadID model.ThreadID) error {
	thread, ok := a.threads[threadID]
	if !ok {
		return cerror.ErrThreadNotFound.GenWithStackByArgs(threadID)
	}
	if thread.AnonMode != model.AnonModeBoth && thread.AnonMode != model.AnonModeMe {
		return cerror.ErrCloseSemiAnonymous.GenWithStackByArgs()
	}

	if err := thread.terminate(ctx); err != nil {
		return err
	}
	delete(a.threads, threadID)

	return a.events.Write(eventlog.Event{
		ThreadTerminated: &eventlog.ThreadTerminatedEvent{
			Login:         a.handle.User.Login,
			OtherLogin:    thread.OtherLogin(),
			MyThreadID:    thread.ID,
			OtherThreadID: thread.OtherID,
		},
	}).Wait()
}

func (a *userActor) handleBan(ctx context.Context, threadID model.ThreadID) error {
	thread, ok := a.threads[threadID]
	if !ok {
		return cerror.ErrThreadNotFound.GenWithStackByArgs(threadID)
	}
	if thread.AnonMode != model.AnonModeThem {
		return cerror.ErrBanVisibleThread.GenWithStackByArgs()
	}

	if err := thread.terminate(ctx); err != nil {
		return err
	}
	delete(a.threads, threadID)

	tracker := a.events.Write(eventlog.Event{
		UserBanned: &eventlog.UserBannedEvent{
			Login:          a.handle.User.Login,
			BannedLogin:    thread.OtherLogin(),
			BannedThreadID: threadID,
		},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	a.banlist[thread.OtherLogin()] = threadID
	return nil
}

func (a *userActor) handleUnban(ctx context.Context, threadID model.ThreadID) error {
	login := ""
	for banned, id := range a.banlist {
		if id == threadID {
			login = banned
			break
		}
	}
	if login == "" {
		return cerror.ErrNotBanned.GenWithStackByArgs(threadID)
	}

	tracker := a.events.Write(eventlog.Event{
		UserUnbanned: &eventlog.UserUnbannedEvent{
			Login:         a.handle.User.Login,
			UnbannedLogin: login,
		},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	delete(a.banlist, login)
	return nil
}

func (a *userActor) handleBanlist(ctx context.Context) error {
	if len(a.banlist) == 0 {
		_, err := a.sendToSelf(ctx, "You have not banned anybody.")
		return err
	}
	var ids []string
	for _, id := range a.banlist {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	_, err := a.sendToSelf(ctx, formatList("Banned threads:", ids))
	return err
}

func (a *userActor) handleBroadcast(ctx context.Context, text string) error {
	if a.handle.User.Login != a.operatorLogin {
		return cerror.ErrNotOperator.GenWithStackByArgs()
	}
	handles := a.directory.Snapshot()
	_, err := a.sendToSelf(ctx,
		fmt.Sprintf("Starting broadcast to %d users...", len(handles)))
	if err != nil {
		return err
	}
	for _, handle := range handles {
		// Waiting on our own action mailbox from inside the loop would
		// deadlock; the owner gets the text directly.
		if handle.User.Login == a.handle.User.Login {
			if _, err := a.sendToSelf(ctx, text); err != nil {
				return err
			}
			continue
		}
		if err := handle.SendAction(ctx, BroadcastAction{Text: text}); err != nil {
			_, err = a.sendToSelf(ctx, fmt.Sprintf(
				"Failed to send broadcast to user @%s: %s",
				handle.User.Login, cerror.Message(err)))
			if err != nil {
				return err
			}
		}
	}
	_, err = a.sendToSelf(ctx, "Broadcast is finished.")
	return err
}

// createThread runs the pairing protocol: construct both halves locally,
// install the mirror at the peer through its action mailbox, block until the
// peer accepted it, then keep our half. The peer's mailbox is serviced by
// its own loop, so pairing between two distinct actors cannot deadlock.
func (a *userActor) createThread(
	ctx context.Context,
	myThreadID, otherThreadID model.ThreadID,
	otherLogin string,
	myMode, otherMode model.AnonymityMode,
) error {
	// The minted id space is small; a collision with a thread this actor
	// already holds must not overwrite it, on either end of the pairing.
	if _, ok := a.threads[myThreadID]; ok {
		return cerror.ErrThreadIDInUse.GenWithStackByArgs(myThreadID)
	}
	otherHandle := a.directory.Get(otherLogin)
	if otherHandle == nil {
		return cerror.ErrUserNotFound.GenWithStackByArgs(otherLogin)
	}

	myThread := &Thread{
		ID:          myThreadID,
		AnonMode:    myMode,
		OtherID:     otherThreadID,
		otherHandle: otherHandle,
	}
	otherThread := &Thread{
		ID:          otherThreadID,
		AnonMode:    otherMode,
		OtherID:     myThreadID,
		otherHandle: a.handle,
	}

	err := otherHandle.SendAction(ctx, StartAnonymousThreadAction{Thread: otherThread})
	if err != nil {
		return err
	}
	a.threads[myThreadID] = myThread
	return nil
}

func (a *userActor) handleAction(ctx context.Context, action Action) error {
	if a.handle.Stopped() {
		return cerror.ErrPeerStopped.GenWithStackByArgs()
	}
	switch act := action.(type) {
	case StartAnonymousThreadAction:
		return a.handleStartAnonymousThread(act.Thread)
	case SendTextAction:
		return a.handleSendText(ctx, act.ThreadID, act.Text)
	case TerminateThreadAction:
		return a.handleTerminateThread(ctx, act.ThreadID)
	case BroadcastAction:
		_, err := a.sendToSelf(ctx, act.Text)
		return err
	}
	log.Panic("unhandled action variant", zap.String("action", action.Name()))
	return nil
}

func (a *userActor) handleStartAnonymousThread(thread *Thread) error {
	if _, ok := a.threads[thread.ID]; ok {
		return cerror.ErrThreadIDInUse.GenWithStackByArgs(thread.ID)
	}
	// A banned user cannot reopen an anonymous line to its victim; visible
	// and mutually anonymous pairings are unaffected.
	if _, banned := a.banlist[thread.OtherLogin()]; banned &&
		thread.AnonMode == model.AnonModeThem {
		return cerror.ErrBannedByUser.GenWithStackByArgs()
	}

	tracker := a.events.Write(eventlog.Event{
		ThreadStarted: &eventlog.ThreadStartedEvent{
			Login:         a.handle.User.Login,
			OtherLogin:    thread.OtherLogin(),
			MyThreadID:    thread.ID,
			OtherThreadID: thread.OtherID,
			AnonMode:      thread.AnonMode,
		},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	a.threads[thread.ID] = thread
	return nil
}

func (a *userActor) handleSendText(
	ctx context.Context, threadID model.ThreadID, text string,
) error {
	thread, ok := a.threads[threadID]
	if !ok {
		return cerror.ErrThreadGone.GenWithStackByArgs()
	}
	var formatted string
	switch thread.AnonMode {
	case model.AnonModeMe:
		formatted = fmt.Sprintf(">>> Message from %s:\n%s", threadID, text)
	case model.AnonModeThem:
		formatted = fmt.Sprintf(">>> Message from anonymous %s:\n%s", threadID, text)
	case model.AnonModeBoth:
		formatted = fmt.Sprintf(">>> Message from random chat %s:\n%s", threadID, text)
	}
	messageID, err := a.sendToSelf(ctx, formatted)
	if err != nil {
		return err
	}

	tracker := a.events.Write(eventlog.Event{
		ThreadMessageReceived: &eventlog.ThreadMessageReceivedEvent{
			Login:     a.handle.User.Login,
			MessageID: messageID,
			ThreadID:  threadID,
		},
	})
	if err := tracker.Wait(); err != nil {
		return err
	}
	a.messageIndex[messageID] = threadID
	return nil
}

func (a *userActor) handleTerminateThread(
	ctx context.Context, threadID model.ThreadID,
) error {
	_, err := a.sendToSelf(ctx,
		fmt.Sprintf("Thread %s has been closed by the other side.", threadID))
	if err != nil {
		return err
	}
	if _, ok := a.threads[threadID]; !ok {
		return cerror.ErrThreadGone.GenWithStackByArgs()
	}
	delete(a.threads, threadID)
	return nil
}

func (a *userActor) sendToSelf(ctx context.Context, text string) (MessageID, error) {
	log.Debug("sending message to user",
		zap.String("login", a.handle.User.Login), zap.String("text", text))
	messageID, err := a.transport.SendMessage(ctx, a.chatID, text)
	if err != nil {
		return 0, cerror.WrapError(cerror.ErrTransportSend, err)
	}
	return messageID, nil
}

func formatList(header string, items []string) string {
	out := header
	for _, item := range items {
		out += "\n* " + item
	}
	return out
}

// Replay-side apply methods. They run before the actor is started, from the
// dispatcher builder's single-threaded fold, and must mirror exactly the
// state transitions the live handlers perform after their events are
// durable.

func (a *userActor) applyThreadStarted(ev *eventlog.ThreadStartedEvent) error {
	otherHandle := a.directory.Get(ev.OtherLogin)
	if otherHandle == nil {
		return cerror.ErrReplayUnknownUser.GenWithStackByArgs(ev.OtherLogin)
	}
	a.threads[ev.MyThreadID] = &Thread{
		ID:          ev.MyThreadID,
		AnonMode:    ev.AnonMode,
		OtherID:     ev.OtherThreadID,
		otherHandle: otherHandle,
	}
	return nil
}

func (a *userActor) applyThreadMessageReceived(ev *eventlog.ThreadMessageReceivedEvent) {
	a.messageIndex[ev.MessageID] = ev.ThreadID
}

func (a *userActor) applyThreadTerminated(threadID model.ThreadID) error {
	if _, ok := a.threads[threadID]; !ok {
		return cerror.ErrReplayBadEvent.GenWithStackByArgs(
			fmt.Sprintf("terminated thread %s does not exist", threadID))
	}
	delete(a.threads, threadID)
	return nil
}

func (a *userActor) applyUserBanned(ev *eventlog.UserBannedEvent) error {
	if _, ok := a.threads[ev.BannedThreadID]; !ok {
		return cerror.ErrReplayBadEvent.GenWithStackByArgs(
			fmt.Sprintf("banned thread %s does not exist", ev.BannedThreadID))
	}
	delete(a.threads, ev.BannedThreadID)
	a.banlist[ev.BannedLogin] = ev.BannedThreadID
	return nil
}

func (a *userActor) applyUserUnbanned(ev *eventlog.UserUnbannedEvent) error {
	if _, ok := a.banlist[ev.UnbannedLogin]; !ok {
		return cerror.ErrReplayBadEvent.GenWithStackByArgs(
			fmt.Sprintf("user %s is not banned", ev.UnbannedLogin))
	}
	delete(a.banlist, ev.UnbannedLogin)
	return nil
}

func (a *userActor) applyUserStopped() {
	a.handle.stopped.Store(true)
}

func (a *userActor) applyUserStarted() {
	a.handle.stopped.Store(false)
}
