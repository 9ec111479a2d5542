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

// This file implements the transliteration worker: a sequential sweep
// over the whole transcript tree that rewrites eligible Hindi records
// into Latin script. The sweep keeps no progress state; rerunning it
// is safe because eligibility is decided from record content.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/services"
)

// TransliterationWorkflow processes one transcript record per chain
// execution and exposes a scan method that walks the whole store.
// Records are handled strictly one at a time: the completion backend
// is typically a small local model, and hammering it concurrently
// only makes every chunk slower.
type TransliterationWorkflow struct {
	cor.BaseCommand
	config *backends.Config
	client backends.CompletionClient
	store  *services.TranscriptStore
	chain  cor.Chain
}

// Execute runs the per-record chain. The context's CtxIn must hold a
// *model.TranscriptRecord.
func (w *TransliterationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *TransliterationWorkflow) initializeChain() {
	tmpl, err := template.New("transliteration-prompt").Parse(w.config.PromptTemplates.Transliteration)
	if err != nil {
		panic(err)
	}

	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewTranscriptTransliterator("transliterate-transcript", w.client, tmpl, w.config.Generation.TranslitChunkWords))
	out.AddCommand(commands.NewTranscriptPersist("persist-transcript", w.store))
	w.chain = out
}

// ScanAndTransliterate walks every channel directory and every record
// in it, running the chain per record. A record that fails to load or
// save is logged and skipped; the sweep keeps going so one corrupt
// file cannot block the rest of the tree. It returns the number of
// records whose text was rewritten.
func (w *TransliterationWorkflow) ScanAndTransliterate(ctx context.Context) (int, error) {
	speakers, err := w.store.ListSpeakers()
	if err != nil {
		return 0, fmt.Errorf("scan transcripts: %w", err)
	}

	changed := 0
	for _, speaker := range speakers {
		files, err := w.store.ListTranscripts(speaker)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable channel directory", "speaker", speaker, "error", err)
			continue
		}
		for _, file := range files {
			record, err := w.store.Load(speaker, file)
			if err != nil {
				slog.WarnContext(ctx, "skipping unreadable record", "speaker", speaker, "file", file, "error", err)
				continue
			}

			chainCtx := cor.NewBaseContext()
			chainCtx.SetContext(ctx)
			chainCtx.Add(cor.CtxIn, record)
			w.Execute(chainCtx)
			chainCtx.Close()

			if chainCtx.HasErrors() {
				for name, chainErr := range chainCtx.GetErrors() {
					slog.ErrorContext(ctx, "transliteration chain error", "speaker", speaker, "file", file, "command", name, "error", chainErr)
				}
				continue
			}
			if wasChanged, ok := chainCtx.Get(commands.ParamTranslitChanged).(bool); ok && wasChanged {
				changed++
			}
		}
	}
	return changed, nil
}

// NewTransliterationWorkflow is the constructor for the workflow,
// bound to the named completion model from the clients container.
func NewTransliterationWorkflow(
	config *backends.Config,
	serviceClients *backends.ServiceClients,
	modelName string,
	store *services.TranscriptStore) *TransliterationWorkflow {

	pipeline := &TransliterationWorkflow{
		BaseCommand: *cor.NewBaseCommand("transliteration-pipeline"),
		config:      config,
		client:      serviceClients.CompletionClients[modelName],
		store:       store,
	}
	pipeline.initializeChain()
	return pipeline
}
