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

// Package main contains the setup and initialization logic for the
// podcast studio server. This file creates the centralized state
// manager holding the shared dependencies: configuration, backend
// clients, the artifact stores, the transcript fetcher, and one
// pre-built workflow per configured completion model and TTS backend.
//
// Functions:
//   - SetupOS: Points the configuration loader at the config directory
//     unless the environment already says otherwise.
//   - GetConfig: A singleton loader for the TOML configuration.
//   - InitState: Builds every client, store, and workflow up front so
//     a bad configuration fails at startup.
package main

import (
	"context"
	"log"
	"os"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/services"
	"github.com/podforge/podforge/internal/core/workflow"
)

// StateManager holds all the shared dependencies for the server,
// avoiding globals scattered across handlers.
type StateManager struct {
	config             *backends.Config
	clients            *backends.ServiceClients
	transcriptStore    *services.TranscriptStore
	scriptStore        *services.ScriptStore
	fetcher            *services.TranscriptFetcher
	scriptWorkflows    map[string]*workflow.ScriptGenerationWorkflow
	narrationWorkflows map[string]*workflow.NarrationWorkflow
}

var state = &StateManager{}

// SetupOS sets the environment variables the configuration loader
// reads, leaving any values the operator already exported untouched.
func SetupOS() (err error) {
	if os.Getenv(backends.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(backends.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(backends.EnvConfigRuntime) == "" {
		err = os.Setenv(backends.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig provides a singleton instance of the application
// configuration, loading the TOML files on first use.
func GetConfig() *backends.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up config environment: %v\n", err)
		}
		config := backends.NewConfig()
		backends.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the entire server state: backend clients,
// stores, the fetcher, and the per-model and per-backend workflows.
func InitState(ctx context.Context) {
	config := GetConfig()

	clients, err := backends.NewServiceClients(ctx, config)
	if err != nil {
		log.Fatalf("failed to initialize backend clients: %v\n", err)
	}
	state.clients = clients

	state.transcriptStore = services.NewTranscriptStore(config.Storage.TranscriptsDir)
	state.scriptStore = services.NewScriptStore(config.Storage.ScriptsDir)

	runner := services.ExecRunner{}
	state.fetcher = services.NewTranscriptFetcher(config.Tools.YtDlpPath, state.transcriptStore, runner)

	state.scriptWorkflows = make(map[string]*workflow.ScriptGenerationWorkflow)
	for name := range config.CompletionModels {
		state.scriptWorkflows[name] = workflow.NewScriptGenerationWorkflow(
			config, clients, name, state.transcriptStore, state.scriptStore)
	}

	state.narrationWorkflows = make(map[string]*workflow.NarrationWorkflow)
	for name := range config.TTSBackends {
		state.narrationWorkflows[name] = workflow.NewNarrationWorkflow(config, clients, name, runner)
	}
}
