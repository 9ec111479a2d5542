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

// This file initializes and holds the client objects for every
// external model service the application talks to. It acts as a
// dependency injection container: `NewServiceClients` is called once
// at startup with the loaded configuration, and the resulting struct
// is passed to the workflows and API handlers that need the clients.
//
// Structs:
//   - ServiceClients: a container holding the completion clients and
//     speech synthesizers, keyed by the logical names from the config.
//
// Functions:
//   - NewServiceClients: a factory that builds every configured client
//     up front so a bad configuration fails at startup, not mid-run.
package backends

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ServiceClients is the central container for external service
// clients. Maps are keyed by the logical backend names used in the
// configuration file, so a request naming "local" or "gemini" resolves
// directly to a ready client.
type ServiceClients struct {
	GenAIClient       *genai.Client                // Shared Gemini client, nil when no gemini backend is configured.
	CompletionClients map[string]CompletionClient  // Script and transliteration models, keyed by config name.
	Synthesizers      map[string]SpeechSynthesizer // Speech backends, keyed by config name.
}

// NewServiceClients builds clients for every completion model and TTS
// backend named in the configuration. The Gemini client is created
// lazily, only when at least one completion model selects the gemini
// backend, so a fully local setup needs no Google credentials.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	clients := &ServiceClients{
		CompletionClients: make(map[string]CompletionClient),
		Synthesizers:      make(map[string]SpeechSynthesizer),
	}

	for name, modelCfg := range config.CompletionModels {
		switch modelCfg.Backend {
		case CompletionBackendLocal:
			client, err := NewLocalCompletionClient(&modelCfg)
			if err != nil {
				return nil, fmt.Errorf("completion model %q: %w", name, err)
			}
			clients.CompletionClients[name] = client
		case CompletionBackendGemini:
			if clients.GenAIClient == nil {
				gc, err := genai.NewClient(ctx, &genai.ClientConfig{
					APIKey:  modelCfg.APIKey,
					Backend: genai.BackendGeminiAPI,
				})
				if err != nil {
					return nil, fmt.Errorf("completion model %q: create genai client: %w", name, err)
				}
				clients.GenAIClient = gc
			}
			client, err := NewGeminiCompletionClient(&modelCfg, clients.GenAIClient.Models)
			if err != nil {
				return nil, fmt.Errorf("completion model %q: %w", name, err)
			}
			clients.CompletionClients[name] = client
		default:
			return nil, fmt.Errorf("completion model %q: unknown backend %q", name, modelCfg.Backend)
		}
	}

	for name, ttsCfg := range config.TTSBackends {
		switch ttsCfg.Kind {
		case TTSBackendElevenLabs:
			synth, err := NewElevenLabsSynthesizer(&ttsCfg)
			if err != nil {
				return nil, fmt.Errorf("tts backend %q: %w", name, err)
			}
			clients.Synthesizers[name] = synth
		case TTSBackendLocal:
			synth, err := NewLocalEngineSynthesizer(&ttsCfg)
			if err != nil {
				return nil, fmt.Errorf("tts backend %q: %w", name, err)
			}
			clients.Synthesizers[name] = synth
		default:
			return nil, fmt.Errorf("tts backend %q: unknown kind %q", name, ttsCfg.Kind)
		}
	}

	return clients, nil
}
