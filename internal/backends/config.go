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

// Package backends defines the data structures for application configuration,
// loaded from TOML files, and the client wrappers for the external engines the
// studio depends on: text-completion models (local OpenAI-compatible servers or
// Gemini) and text-to-speech synthesizers (cloud or local neural engines).
//
// This file centralizes all configuration-related structs. The configuration is
// constructed exactly once at process start and passed by reference into every
// component constructor; there is no ambient global configuration state.
//
// Structs:
//   - Storage: Root directories for the on-disk artifact stores.
//   - Tools: Paths to the external executables the studio shells out to.
//   - PromptTemplates: Text templates for prompts sent to completion models.
//   - CompletionModel: Configuration for a single text-completion model.
//   - TTSBackend: Configuration for a single speech-synthesis backend.
//   - Generation: Tunables for script generation and narration.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package backends

// Completion backend kinds selectable per model in the configuration.
const (
	CompletionBackendLocal  = "local"  // An OpenAI-compatible completion server (LM Studio, Ollama, vLLM).
	CompletionBackendGemini = "gemini" // Gemini via the google.golang.org/genai SDK.
)

// TTS backend kinds selectable per backend in the configuration.
const (
	TTSBackendElevenLabs = "elevenlabs" // Cloud synthesis over the ElevenLabs REST API.
	TTSBackendLocal      = "local"      // A localhost neural TTS engine serving WAV over HTTP.
)

// Storage holds the root directories for the three artifact stores. Each store
// owns its own subtree; there is no central index or database.
type Storage struct {
	TranscriptsDir string `toml:"transcripts_dir"` // Per-channel transcript record tree.
	ScriptsDir     string `toml:"scripts_dir"`     // Per-topic generated script artifacts.
	AudioDir       string `toml:"audio_dir"`       // Per-topic narrated audio artifacts.
}

// Tools holds the paths to external executables. Both default to bare command
// names so the system PATH is consulted.
type Tools struct {
	YtDlpPath  string `toml:"yt_dlp_path"` // Path to the yt-dlp executable.
	FFmpegPath string `toml:"ffmpeg_path"` // Path to the ffmpeg executable.
}

// PromptTemplates holds the text/template sources for the prompts sent to the
// completion models.
type PromptTemplates struct {
	Script          string `toml:"script"`          // The template for generating a two-host podcast script.
	Transliteration string `toml:"transliteration"` // The template for Devanagari-to-Latin transliteration.
}

// CompletionModel represents the configuration for a single text-completion
// model, keyed by a logical name in the Config (e.g. "default").
type CompletionModel struct {
	Backend          string  `toml:"backend"`            // One of the CompletionBackend* kinds.
	BaseURL          string  `toml:"base_url"`           // Base URL for the local backend (e.g. http://localhost:1234/v1).
	APIKey           string  `toml:"api_key"`            // API key; the local backend accepts any non-empty value.
	Model            string  `toml:"model"`              // The model identifier sent with each request.
	Temperature      float32 `toml:"temperature"`        // Sampling temperature.
	MaxTokens        int32   `toml:"max_tokens"`         // Maximum output tokens (0 = backend default).
	TimeoutInSeconds int     `toml:"timeout_in_seconds"` // Per-request timeout. Long-form dialogue is slow; minutes-scale values are expected.
	RateLimit        int     `toml:"rate_limit"`         // Requests per second admitted by the quota-aware wrapper.
}

// TTSBackend represents the configuration for a single speech-synthesis
// backend, keyed by a logical name in the Config. The two voices map to the
// two podcast hosts: VoiceOne narrates char1 lines and VoiceTwo char2 lines.
type TTSBackend struct {
	Kind             string  `toml:"kind"`              // One of the TTSBackend* kinds.
	BaseURL          string  `toml:"base_url"`          // Service base URL.
	APIKey           string  `toml:"api_key"`           // API key for cloud backends.
	VoiceOne         string  `toml:"voice_one"`         // Voice/preset identifier for the first speaker.
	VoiceTwo         string  `toml:"voice_two"`         // Voice/preset identifier for the second speaker.
	SampleRate       int     `toml:"sample_rate"`       // Native output sample rate in Hz.
	StripExpressions bool    `toml:"strip_expressions"` // Whether bracketed stage directions ("[laughs]") are removed before synthesis.
	PlaybackSpeed    float64 `toml:"playback_speed"`    // Speed multiplier applied during stitching; 0 or 1 disables it.
}

// Generation holds the tunables for the script generator, the narrator, and
// the transliteration worker.
type Generation struct {
	DefaultLengthMinutes int `toml:"default_length_minutes"` // Target script length when the request omits one.
	DefaultSampleLines   int `toml:"default_sample_lines"`   // Example lines sampled per speaker when the request omits a count.
	TranslitChunkWords   int `toml:"translit_chunk_words"`   // Word-window size for transliteration chunking.
	LineGapMillis        int `toml:"line_gap_millis"`        // Silence inserted between stitched dialogue clips.
}

// Config represents the overall configuration for the application, loaded from
// TOML files. It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name    string `toml:"name"`     // The name of the application.
		Port    int    `toml:"port"`     // TCP port for the HTTP API.
		LogsDir string `toml:"logs_dir"` // Directory for the structured log files.
	} `toml:"application"`
	Storage          Storage                    `toml:"storage"`           // Artifact store roots.
	Tools            Tools                      `toml:"tools"`             // External executable paths.
	PromptTemplates  PromptTemplates            `toml:"prompt_templates"`  // Prompt template sources.
	CompletionModels map[string]CompletionModel `toml:"completion_models"` // Completion models keyed by logical name (e.g. "default").
	TTSBackends      map[string]TTSBackend      `toml:"tts_backends"`      // TTS backends keyed by logical name (e.g. "elevenlabs", "local").
	Generation       Generation                 `toml:"generation"`        // Generator and narrator tunables.
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. It's important to initialize the maps within the struct to avoid
// nil pointer panics when the configuration loader tries to populate them.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with its map fields initialized.
func NewConfig() *Config {
	return &Config{
		CompletionModels: make(map[string]CompletionModel),
		TTSBackends:      make(map[string]TTSBackend),
	}
}
