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

// Package backends_test contains the test suite for the backends package.
// This file tests the two HTTP speech synthesizers against local httptest
// servers standing in for the real services.
package backends_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/audio"
	"github.com/stretchr/testify/assert"
)

// wavBytes encodes a short silent clip as a WAV byte stream.
func wavBytes(t *testing.T, d time.Duration, rate int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := audio.EncodeWAV(&buf, audio.Silence(d, rate)); err != nil {
		t.Fatalf("failed to encode wav fixture: %v", err)
	}
	return buf.Bytes()
}

// TestLocalEngineSynthesizer verifies the request shape sent to the engine
// and that the returned WAV is decoded at the rate the engine produced.
func TestLocalEngineSynthesizer(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wavBytes(t, 50*time.Millisecond, 24000))
	}))
	defer server.Close()

	synth, err := backends.NewLocalEngineSynthesizer(&backends.TTSBackend{
		Kind:     backends.TTSBackendLocal,
		BaseURL:  server.URL,
		VoiceOne: "v2/en_speaker_6",
		VoiceTwo: "v2/en_speaker_3",
	})
	assert.NoError(t, err)

	clip, err := synth.Synthesize(context.Background(), "Hello there.", "v2/en_speaker_6")
	assert.NoError(t, err)
	assert.Equal(t, "/v1/generate/speech", gotPath)
	assert.Equal(t, "Hello there.", gotBody["text"])
	assert.Equal(t, "v2/en_speaker_6", gotBody["voice"])
	assert.Equal(t, 24000, clip.SampleRate)
	assert.Equal(t, 50*time.Millisecond, clip.Duration())
}

// TestLocalEngineSynthesizerErrorDetail verifies the engine's JSON error
// detail surfaces in the returned error.
func TestLocalEngineSynthesizerErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "model not loaded"}`))
	}))
	defer server.Close()

	synth, err := backends.NewLocalEngineSynthesizer(&backends.TTSBackend{BaseURL: server.URL})
	assert.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "Hello.", "voice")
	assert.ErrorContains(t, err, "model not loaded")
	assert.ErrorContains(t, err, "500")
}

// TestLocalEngineSynthesizerRejectsNonWAV verifies a non-WAV body is refused
// rather than interpreted as samples.
func TestLocalEngineSynthesizerRejectsNonWAV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not audio</html>"))
	}))
	defer server.Close()

	synth, err := backends.NewLocalEngineSynthesizer(&backends.TTSBackend{BaseURL: server.URL})
	assert.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "Hello.", "voice")
	assert.ErrorContains(t, err, "expected WAV audio")
}

// TestLocalEngineSynthesizerRequiresBaseURL verifies construction fails
// without an engine URL; there is no sensible default for a local engine.
func TestLocalEngineSynthesizerRequiresBaseURL(t *testing.T) {
	_, err := backends.NewLocalEngineSynthesizer(&backends.TTSBackend{})
	assert.Error(t, err)
}

// TestElevenLabsSynthesizerPCM verifies the voice ID and output format in
// the request URL, the API key header, and raw PCM interpretation at the
// configured sample rate.
func TestElevenLabsSynthesizerPCM(t *testing.T) {
	var gotURL, gotKey string
	pcm := audio.Silence(100*time.Millisecond, 22050).PCM16LE()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotKey = r.Header.Get("xi-api-key")
		_, _ = w.Write(pcm)
	}))
	defer server.Close()

	synth, err := backends.NewElevenLabsSynthesizer(&backends.TTSBackend{
		Kind:       backends.TTSBackendElevenLabs,
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		SampleRate: 22050,
	})
	assert.NoError(t, err)

	clip, err := synth.Synthesize(context.Background(), "Hello there.", "voice-id-1")
	assert.NoError(t, err)
	assert.Equal(t, "/v1/text-to-speech/voice-id-1?output_format=pcm_22050", gotURL)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, 22050, clip.SampleRate)
	assert.Equal(t, 100*time.Millisecond, clip.Duration())
}

// TestElevenLabsSynthesizerWAVFallback verifies a WAV-container response is
// detected and decoded instead of being misread as raw PCM.
func TestElevenLabsSynthesizerWAVFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(wavBytes(t, 50*time.Millisecond, 44100))
	}))
	defer server.Close()

	synth, err := backends.NewElevenLabsSynthesizer(&backends.TTSBackend{
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		SampleRate: 22050,
	})
	assert.NoError(t, err)

	clip, err := synth.Synthesize(context.Background(), "Hello.", "voice-id-1")
	assert.NoError(t, err)
	// The container's own rate wins over the configured one.
	assert.Equal(t, 44100, clip.SampleRate)
}

// TestElevenLabsSynthesizerFailsOnError verifies a non-200 response becomes
// an error carrying the voice and status.
func TestElevenLabsSynthesizerFailsOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid api key"))
	}))
	defer server.Close()

	synth, err := backends.NewElevenLabsSynthesizer(&backends.TTSBackend{
		BaseURL: server.URL,
		APIKey:  "wrong",
	})
	assert.NoError(t, err)

	_, err = synth.Synthesize(context.Background(), "Hello.", "voice-id-1")
	assert.ErrorContains(t, err, "voice-id-1")
	assert.ErrorContains(t, err, "401")
}
