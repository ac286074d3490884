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

// Package model holds the plain data types shared by the relay core and its
// event log: users, thread identifiers and anonymity modes.
package model

import "strings"

// User identifies one participant. Login is the only routing key; a user is
// immutable once first seen.
type User struct {
	Login     string `json:"login"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName renders the user the way directory listings show it.
func (u *User) DisplayName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName + " @" + u.Login
	}
	return u.FirstName + " @" + u.Login
}

// ThreadID names one endpoint of a conversation. Two syntactic classes carry
// meaning: "@login" threads address a login directly, "#adjective_noun"
// threads are randomly minted. Uniqueness is per owning actor.
type ThreadID = string

// IsDirect reports whether the id addresses a login directly.
func IsDirect(id ThreadID) bool {
	return strings.HasPrefix(id, "@")
}

// IsMinted reports whether the id belongs to the random naming scheme.
func IsMinted(id ThreadID) bool {
	return strings.HasPrefix(id, "#")
}

// DirectTarget returns the login a direct thread id addresses.
func DirectTarget(id ThreadID) string {
	return strings.TrimPrefix(id, "@")
}

// AnonymityMode tells which side of a thread is identified. It is fixed at
// thread creation and never changes.
type AnonymityMode string

const (
	// AnonModeMe means I am visible to the peer, the peer is anonymous to me.
	AnonModeMe AnonymityMode = "Me"
	// AnonModeThem means the peer is visible to me, I am anonymous to them.
	AnonModeThem AnonymityMode = "Them"
	// AnonModeBoth means neither side is identified; used for random pairing.
	AnonModeBoth AnonymityMode = "Both"
)

// Valid reports whether the mode is one of the three known values.
func (m AnonymityMode) Valid() bool {
	switch m {
	case AnonModeMe, AnonModeThem, AnonModeBoth:
		return true
	}
	return false
}
