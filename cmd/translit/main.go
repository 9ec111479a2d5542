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

// Package main is the entry point for the transliteration worker, a
// one-shot batch job that sweeps the transcript store and rewrites
// eligible Hindi transcripts from Devanagari into Latin script.
// Run it from cron or by hand after fetching new transcripts; it keeps
// no state between runs.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/services"
	"github.com/podforge/podforge/internal/core/workflow"
	"github.com/podforge/podforge/internal/telemetry"
)

func main() {
	modelName := flag.String("model", "default", "logical name of the completion model to transliterate with")
	flag.Parse()

	if os.Getenv(backends.EnvConfigFilePrefix) == "" {
		if err := os.Setenv(backends.EnvConfigFilePrefix, "configs"); err != nil {
			log.Fatal(err)
		}
	}
	if os.Getenv(backends.EnvConfigRuntime) == "" {
		if err := os.Setenv(backends.EnvConfigRuntime, "local"); err != nil {
			log.Fatal(err)
		}
	}

	config := backends.NewConfig()
	backends.LoadConfig(&config)

	telemetry.SetupLogging(config.Application.LogsDir)

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config.Application.Name+"-translit", config.Application.LogsDir)
	if err != nil {
		log.Fatalf("failed to set up OpenTelemetry: %v\n", err)
	}
	defer func() { _ = shutdownTelemetry(ctx) }()

	clients, err := backends.NewServiceClients(ctx, config)
	if err != nil {
		log.Fatalf("failed to initialize backend clients: %v\n", err)
	}
	if _, ok := clients.CompletionClients[*modelName]; !ok {
		log.Fatalf("unknown completion model %q\n", *modelName)
	}

	store := services.NewTranscriptStore(config.Storage.TranscriptsDir)
	worker := workflow.NewTransliterationWorkflow(config, clients, *modelName, store)

	slog.Info("scanning for Hindi transcripts to transliterate", "transcripts_dir", config.Storage.TranscriptsDir)
	changed, err := worker.ScanAndTransliterate(ctx)
	if err != nil {
		log.Fatalf("transliteration sweep failed: %v\n", err)
	}
	slog.Info("transliteration sweep complete", "records_rewritten", changed)
}
