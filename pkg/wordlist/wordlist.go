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

// Package wordlist mints the human-readable identifiers of randomly paired
// threads, "#adjective_noun". Uniqueness is not guaranteed here; the
// receiving actor rejects a colliding id.
package wordlist

import (
	"math/rand"
	"sync"
)

var adjectives = []string{
	"amber", "brave", "calm", "dapper", "eager", "fuzzy",
	"gentle", "hazy", "icy", "jolly", "keen", "lively",
	"mellow", "nimble", "odd", "proud", "quiet", "rusty",
	"shiny", "tidy", "umber", "vivid", "witty", "zesty",
}

var nouns = []string{
	"anchor", "badger", "canyon", "dune", "ember", "falcon",
	"garnet", "harbor", "island", "jackal", "kettle", "lagoon",
	"meadow", "nutmeg", "otter", "pebble", "quartz", "raven",
	"spruce", "thicket", "urchin", "violet", "walnut", "zephyr",
}

// Generator mints thread ids of the random ("#") naming scheme.
// Implementations must be safe for concurrent use.
type Generator interface {
	NewThreadID() string
}

type generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded from the given source.
func NewGenerator(seed int64) Generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *generator) NewThreadID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	adjective := adjectives[g.rng.Intn(len(adjectives))]
	noun := nouns[g.rng.Intn(len(nouns))]
	return "#" + adjective + "_" + noun
}
