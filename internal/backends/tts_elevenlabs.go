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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/podforge/podforge/internal/core/audio"
)

const elevenLabsDefaultBaseURL = "https://api.elevenlabs.io"

// elevenLabsRequest is the JSON payload for the text-to-speech call.
// The voice settings match the values the narrations were tuned with;
// they are not exposed in configuration.
type elevenLabsRequest struct {
	Text          string                `json:"text"`
	VoiceSettings elevenLabsVoiceTuning `json:"voice_settings"`
}

type elevenLabsVoiceTuning struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// ElevenLabsSynthesizer voices lines through the ElevenLabs cloud API.
// It requests raw PCM output at the configured sample rate so the
// stitcher can concatenate clips without an intermediate decode step.
type ElevenLabsSynthesizer struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voiceOne   string
	voiceTwo   string
	sampleRate int
}

// NewElevenLabsSynthesizer builds a synthesizer from a TTS backend
// config entry. The API key is mandatory; the base URL defaults to the
// public API endpoint and is overridable for tests.
func NewElevenLabsSynthesizer(cfg *TTSBackend) (*ElevenLabsSynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("elevenlabs backend requires an api_key")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsDefaultBaseURL
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 22050
	}
	return &ElevenLabsSynthesizer{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		voiceOne:   cfg.VoiceOne,
		voiceTwo:   cfg.VoiceTwo,
		sampleRate: sampleRate,
	}, nil
}

func (s *ElevenLabsSynthesizer) Kind() string { return TTSBackendElevenLabs }

func (s *ElevenLabsSynthesizer) SampleRate() int { return s.sampleRate }

func (s *ElevenLabsSynthesizer) Voices() (string, string) { return s.voiceOne, s.voiceTwo }

// Synthesize voices a single line with the given voice ID. A non-200
// response aborts the narration: a missing clip in the middle of a
// conversation is worse than no output at all.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string, voice string) (*audio.Clip, error) {
	payload, err := json.Marshal(&elevenLabsRequest{
		Text: text,
		VoiceSettings: elevenLabsVoiceTuning{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=pcm_%d", s.baseURL, voice, s.sampleRate)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs: voice %q returned status %d: %s", voice, resp.StatusCode, string(body))
	}

	// Some self-hosted stand-ins answer with a WAV container even when
	// raw PCM was requested. Sniff and decode rather than misreading a
	// RIFF header as samples.
	if kind, _ := filetype.Match(body); kind == matchers.TypeWav {
		return audio.DecodeWAV(body)
	}
	return audio.FromPCM16LE(body, s.sampleRate), nil
}
