// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package test provides utility functions and mock implementations to support
// the application's test suite. It helps in setting up a consistent test
// environment, loading test-specific configuration, and providing stub
// completion clients, speech synthesizers, and command runners so that tests
// never touch a real model, TTS engine, or subprocess.
package test

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/audio"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs. This prevents the need to reload
// configuration files for every test, speeding up the test suite.
type StateManager struct {
	config *backends.Config
}

// state is a package-level variable that holds the singleton instance of
// StateManager, ensuring the configuration is loaded only once per test run.
var state = &StateManager{}

// HandleErr is a simple test helper function that checks if an error is not nil.
// If an error exists, it fails the test immediately by calling t.Errorf.
// This is a convenience function to reduce boilerplate error-checking code in tests.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// findModuleRoot walks up from the current working directory until it finds a
// directory containing go.mod. Tests execute with their package directory as
// the working directory, so configuration paths must be anchored to the module
// root rather than expressed relative to the test file.
func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("test: module root not found")
		}
		dir = parent
	}
}

// SetupOS configures the environment variables that the configuration loader
// depends on, directing it at the module's configs directory and the
// test-specific override file (".env.test.toml").
//
// Returns:
//   - An error if the module root cannot be located or an env var cannot be set.
func SetupOS() (err error) {
	root, err := findModuleRoot()
	if err != nil {
		return err
	}
	err = os.Setenv(backends.EnvConfigFilePrefix, filepath.Join(root, "configs"))
	if err != nil {
		return err
	}
	err = os.Setenv(backends.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration. It ensures
// that the configuration is loaded from the TOML files only once and is cached
// for subsequent calls. This is the primary way tests should retrieve their
// configuration.
//
// Returns:
//   - A pointer to the loaded and cached backends.Config struct.
func GetConfig() *backends.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := backends.NewConfig()
		backends.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// SeedTranscripts writes a set of example transcript records for a speaker
// into the given store, returning the saved paths. The records are English
// with distinct videos so sampler tests have a deterministic pool shape.
//
// Inputs:
//   - t: The current test, used to fail fast on store errors.
//   - store: The transcript store to seed.
//   - speaker: The channel (speaker) name the records belong to.
//   - count: How many records to create.
func SeedTranscripts(t *testing.T, store *services.TranscriptStore, speaker string, count int) []string {
	t.Helper()
	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		rec := model.GetExampleTranscriptRecord(
			speaker,
			"Episode "+strings.Repeat("I", i+1),
			// Video ids must be 11 characters to match the extractor.
			"testvideo"+string(rune('0'+i))+"x",
		)
		path, err := store.Save(rec)
		if err != nil {
			t.Fatalf("failed to seed transcript: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

// CountingRunner is a services.Runner stub that records every invocation and
// replays scripted outputs in order. It lets tests assert exactly which
// external commands a workflow would have executed, and in particular that a
// cache hit executes none.
type CountingRunner struct {
	mu      sync.Mutex
	Calls   [][]string // Each element is the name followed by its args.
	Outputs [][]byte   // Replayed in order; the last entry repeats.
	Errs    []error    // Parallel to Outputs; nil entries mean success.
}

// Run records the invocation and returns the next scripted output.
func (r *CountingRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := append([]string{name}, args...)
	idx := len(r.Calls)
	r.Calls = append(r.Calls, call)
	if len(r.Outputs) == 0 {
		return nil, nil
	}
	if idx >= len(r.Outputs) {
		idx = len(r.Outputs) - 1
	}
	var err error
	if idx < len(r.Errs) {
		err = r.Errs[idx]
	}
	return r.Outputs[idx], err
}

// CallCount returns how many times Run has been invoked.
func (r *CountingRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}

// StubCompletionClient is a backends.CompletionClient that returns a canned
// reply and records the prompts it received.
type StubCompletionClient struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
}

// Complete records the prompt and returns the configured reply or error.
func (c *StubCompletionClient) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.Prompts = append(c.Prompts, prompt)
	c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}

// PromptCount returns how many prompts the stub has seen.
func (c *StubCompletionClient) PromptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Prompts)
}

// StubSynthesizer is a backends.SpeechSynthesizer that emits a short silent
// clip of a fixed duration per call. FailAfter, when positive, makes the
// n+1'th call return an error, which exercises the narrator's fail-fast path.
type StubSynthesizer struct {
	mu        sync.Mutex
	Rate      int
	ClipLen   time.Duration
	FailAfter int
	calls     int
	Texts     []string
	VoicesIn  []string
}

// NewStubSynthesizer returns a synthesizer producing 100ms clips at 24kHz.
func NewStubSynthesizer() *StubSynthesizer {
	return &StubSynthesizer{Rate: 24000, ClipLen: 100 * time.Millisecond, FailAfter: -1}
}

// Kind identifies the stub in logs.
func (s *StubSynthesizer) Kind() string { return "stub" }

// SampleRate returns the stub's fixed output rate.
func (s *StubSynthesizer) SampleRate() int { return s.Rate }

// Voices returns fixed voice names for the two hosts.
func (s *StubSynthesizer) Voices() (string, string) { return "voice_one", "voice_two" }

// Synthesize records the request and returns a silent clip, or an error once
// the configured failure point is reached.
func (s *StubSynthesizer) Synthesize(_ context.Context, text string, voice string) (*audio.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAfter >= 0 && s.calls >= s.FailAfter {
		return nil, errors.New("stub synthesizer: injected failure")
	}
	s.calls++
	s.Texts = append(s.Texts, text)
	s.VoicesIn = append(s.VoicesIn, voice)
	return audio.Silence(s.ClipLen, s.Rate), nil
}

// CallCount returns how many successful synthesis calls were made.
func (s *StubSynthesizer) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
