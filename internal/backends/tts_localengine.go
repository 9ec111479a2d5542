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

const localEngineSpeechPath = "/v1/generate/speech"

// localEngineRequest is the JSON payload for the local speech engine.
// The voice field carries a speaker preset name understood by the
// engine (for example "v2/en_speaker_6").
type localEngineRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// localEngineError mirrors the engine's error body so failures carry
// the engine's own explanation instead of a bare status code.
type localEngineError struct {
	Detail string `json:"detail"`
}

// LocalEngineSynthesizer voices lines through a speech engine running
// on localhost that answers with a WAV file. No API key is involved;
// the engine is assumed to be reachable only from this machine.
type LocalEngineSynthesizer struct {
	httpClient *http.Client
	baseURL    string
	voiceOne   string
	voiceTwo   string
	sampleRate int
}

// NewLocalEngineSynthesizer builds a synthesizer from a TTS backend
// config entry. Local generation runs on whatever hardware is at hand,
// so the HTTP timeout is long.
func NewLocalEngineSynthesizer(cfg *TTSBackend) (*LocalEngineSynthesizer, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("local tts backend requires a base_url")
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	return &LocalEngineSynthesizer{
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		baseURL:    cfg.BaseURL,
		voiceOne:   cfg.VoiceOne,
		voiceTwo:   cfg.VoiceTwo,
		sampleRate: sampleRate,
	}, nil
}

func (s *LocalEngineSynthesizer) Kind() string { return TTSBackendLocal }

func (s *LocalEngineSynthesizer) SampleRate() int { return s.sampleRate }

func (s *LocalEngineSynthesizer) Voices() (string, string) { return s.voiceOne, s.voiceTwo }

// Synthesize posts a single line to the engine and decodes the WAV it
// returns. Clips whose sample rate differs from the configured one are
// accepted as-is; the decoder records the real rate on the clip.
func (s *LocalEngineSynthesizer) Synthesize(ctx context.Context, text string, voice string) (*audio.Clip, error) {
	payload, err := json.Marshal(&localEngineRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, fmt.Errorf("local tts: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+localEngineSpeechPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("local tts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local tts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("local tts: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var engineErr localEngineError
		if json.Unmarshal(body, &engineErr) == nil && engineErr.Detail != "" {
			return nil, fmt.Errorf("local tts: engine returned status %d: %s", resp.StatusCode, engineErr.Detail)
		}
		return nil, fmt.Errorf("local tts: engine returned status %d: %s", resp.StatusCode, string(body))
	}

	if kind, _ := filetype.Match(body); kind != matchers.TypeWav {
		return nil, fmt.Errorf("local tts: expected WAV audio, got %q", kind.MIME.Value)
	}
	return audio.DecodeWAV(body)
}
