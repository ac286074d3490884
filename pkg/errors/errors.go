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

package errors

import (
	"github.com/pingcap/errors"
)

// actor runtime errors
var (
	ErrMailboxFull = errors.Normalize(
		"mailbox is full",
		errors.RFCCodeText("RELAY:ErrMailboxFull"),
	)
)

// event log errors
var (
	ErrEventEncode = errors.Normalize(
		"failed to encode event",
		errors.RFCCodeText("RELAY:ErrEventEncode"),
	)
	ErrEventDecode = errors.Normalize(
		"failed to decode event log record",
		errors.RFCCodeText("RELAY:ErrEventDecode"),
	)
	ErrEventNoVariant = errors.Normalize(
		"event record has no known variant",
		errors.RFCCodeText("RELAY:ErrEventNoVariant"),
	)
	ErrEventMultipleVariants = errors.Normalize(
		"event record has multiple variants",
		errors.RFCCodeText("RELAY:ErrEventMultipleVariants"),
	)
	ErrEventLogWrite = errors.Normalize(
		"failed to write events to log",
		errors.RFCCodeText("RELAY:ErrEventLogWrite"),
	)
	ErrEventLogRead = errors.Normalize(
		"failed to read event log",
		errors.RFCCodeText("RELAY:ErrEventLogRead"),
	)
)

// command grammar errors
var (
	ErrEmptyMessage = errors.Normalize(
		"empty message",
		errors.RFCCodeText("RELAY:ErrEmptyMessage"),
	)
	ErrUnknownCommand = errors.Normalize(
		"unknown command: %s",
		errors.RFCCodeText("RELAY:ErrUnknownCommand"),
	)
	ErrNoReceiver = errors.Normalize(
		"no receiver specified",
		errors.RFCCodeText("RELAY:ErrNoReceiver"),
	)
	ErrEmptyText = errors.Normalize(
		"message text is empty",
		errors.RFCCodeText("RELAY:ErrEmptyText"),
	)
	ErrBadThreadID = errors.Normalize(
		"thread id must start with '@' or '#': %s",
		errors.RFCCodeText("RELAY:ErrBadThreadID"),
	)
)

// user actor errors, rendered back to the user verbatim
var (
	ErrBotStopped = errors.Normalize(
		"you have stopped the bot. Use `/start` to restart it",
		errors.RFCCodeText("RELAY:ErrBotStopped"),
	)
	ErrPeerStopped = errors.Normalize(
		"user has stopped the bot",
		errors.RFCCodeText("RELAY:ErrPeerStopped"),
	)
	ErrUnknownThread = errors.Normalize(
		"unknown thread: %s",
		errors.RFCCodeText("RELAY:ErrUnknownThread"),
	)
	ErrThreadNotFound = errors.Normalize(
		"thread %s does not exist",
		errors.RFCCodeText("RELAY:ErrThreadNotFound"),
	)
	ErrSendToSelf = errors.Normalize(
		"cannot send a message to self",
		errors.RFCCodeText("RELAY:ErrSendToSelf"),
	)
	ErrUserNotFound = errors.Normalize(
		"user has not started this bot: @%s",
		errors.RFCCodeText("RELAY:ErrUserNotFound"),
	)
	ErrNoOtherUsers = errors.Normalize(
		"there are currently no other users to chat with",
		errors.RFCCodeText("RELAY:ErrNoOtherUsers"),
	)
	ErrReplyNoThread = errors.Normalize(
		"message you are replying to does not belong to a thread",
		errors.RFCCodeText("RELAY:ErrReplyNoThread"),
	)
	ErrThreadGone = errors.Normalize(
		"thread does not exist anymore",
		errors.RFCCodeText("RELAY:ErrThreadGone"),
	)
	ErrCloseSemiAnonymous = errors.Normalize(
		"cannot close a semi-anonymous thread; use `/ban` instead",
		errors.RFCCodeText("RELAY:ErrCloseSemiAnonymous"),
	)
	ErrBanVisibleThread = errors.Normalize(
		"cannot ban random or non-anonymous chat; use `/close` instead",
		errors.RFCCodeText("RELAY:ErrBanVisibleThread"),
	)
	ErrNotBanned = errors.Normalize(
		"no %s in your ban list",
		errors.RFCCodeText("RELAY:ErrNotBanned"),
	)
	ErrBannedByUser = errors.Normalize(
		"you are banned by this user",
		errors.RFCCodeText("RELAY:ErrBannedByUser"),
	)
	ErrThreadIDInUse = errors.Normalize(
		"thread id %s is already used",
		errors.RFCCodeText("RELAY:ErrThreadIDInUse"),
	)
	ErrNotOperator = errors.Normalize(
		"you are not admin",
		errors.RFCCodeText("RELAY:ErrNotOperator"),
	)
	ErrTransportSend = errors.Normalize(
		"failed to send message to user",
		errors.RFCCodeText("RELAY:ErrTransportSend"),
	)
)

// replay errors, fatal at startup
var (
	ErrReplayUnknownUser = errors.Normalize(
		"user not found during replay: @%s",
		errors.RFCCodeText("RELAY:ErrReplayUnknownUser"),
	)
	ErrReplayBadEvent = errors.Normalize(
		"inconsistent event during replay: %s",
		errors.RFCCodeText("RELAY:ErrReplayBadEvent"),
	)
)

// config errors
var (
	ErrInvalidConfig = errors.Normalize(
		"invalid config: %s",
		errors.RFCCodeText("RELAY:ErrInvalidConfig"),
	)
)
