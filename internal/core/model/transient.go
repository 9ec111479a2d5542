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

// Package model defines the core data structures for the application.
// This file, `transient.go`, contains struct definitions for data models that
// are used in memory while a workflow executes and are never persisted in this
// form. They serve as intermediate containers as data moves between commands
// in a chain of responsibility.
package model

// Speaker identifies which of the two podcast hosts a parsed dialogue line
// belongs to.
type Speaker int

const (
	// SpeakerOne is the host named by a request's char1.
	SpeakerOne Speaker = iota
	// SpeakerTwo is the host named by a request's char2.
	SpeakerTwo
)

// ScriptLine is one recognized dialogue line from a generated script. Lines
// that match neither speaker prefix never become ScriptLines; they are skipped
// during parsing rather than surfaced as errors.
type ScriptLine struct {
	Speaker Speaker // Which host speaks the line.
	Name    string  // The speaker's display name as it appeared in the prefix.
	Text    string  // The spoken text after the "Name:" prefix, trimmed.
}

// SpeakerSamples holds the example lines drawn from one speaker's transcript
// pool for prompt construction. An empty Lines slice is a valid state: a
// speaker with no transcripts degrades to an empty example set rather than an
// error.
type SpeakerSamples struct {
	Name  string   // The speaker (channel) name.
	Lines []string // Uniformly sampled, period-split, trimmed transcript lines.
}

// PromptSeed bundles a script request with the sampled style lines so the
// prompt builder receives everything it needs in one value.
type PromptSeed struct {
	Request      *ScriptRequest
	Char1Samples SpeakerSamples
	Char2Samples SpeakerSamples
}

// ScriptRequest carries the parameters of one script-generation call through
// the workflow.
type ScriptRequest struct {
	Char1         string `json:"char1"`
	Char2         string `json:"char2"`
	Topic         string `json:"topic"`
	LengthMinutes int    `json:"length_minutes"`
	Model         string `json:"model"`
	SampleLines   int    `json:"sample_lines"`
}

// NarrationRequest carries the parameters of one narration call through the
// workflow.
type NarrationRequest struct {
	Script       string `json:"script"`
	Char1        string `json:"char1"`
	Char2        string `json:"char2"`
	Topic        string `json:"topic"`
	Backend      string `json:"backend"`       // Logical TTS backend name from the configuration.
	OutputFormat string `json:"output_format"` // Audio container (e.g. "wav", "mp3").
}
