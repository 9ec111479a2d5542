// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backends

import (
	"context"

	"github.com/podforge/podforge/internal/core/audio"
)

// CompletionClient produces a text completion for a single prompt. The
// implementations wrap either a locally hosted OpenAI-compatible server
// or the Gemini API, and each applies its own configured request
// timeout. A failed completion is returned as-is: there is no retry
// layer in front of these clients.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer converts one line of text into a mono PCM clip.
// The voice argument is backend specific: an ElevenLabs voice ID for
// the cloud backend, a speaker preset name for the local engine.
type SpeechSynthesizer interface {
	// Kind returns the backend discriminator (TTSBackendElevenLabs or
	// TTSBackendLocal).
	Kind() string

	// SampleRate returns the sample rate, in Hz, of the clips this
	// synthesizer produces.
	SampleRate() int

	// Voices returns the configured voice identifiers for the first
	// and second speaker, in that order.
	Voices() (string, string)

	Synthesize(ctx context.Context, text string, voice string) (*audio.Clip, error)
}
