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

package commands

import (
	"fmt"
	"log/slog"

	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// TranscriptPersist saves a transcript record back through the store.
// It only runs when an upstream command flagged the record as changed,
// so untouched records never get rewritten to disk.
type TranscriptPersist struct {
	cor.BaseCommand
	store *services.TranscriptStore
}

// NewTranscriptPersist is the constructor for the TranscriptPersist
// command.
func NewTranscriptPersist(name string, store *services.TranscriptStore) *TranscriptPersist {
	return &TranscriptPersist{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
	}
}

// IsExecutable gates the save on the changed flag in addition to the
// default input check.
func (t *TranscriptPersist) IsExecutable(context cor.Context) bool {
	if !t.BaseCommand.IsExecutable(context) {
		return false
	}
	changed, ok := context.Get(ParamTranslitChanged).(bool)
	return ok && changed
}

// Execute writes the record and pipes it onward.
func (t *TranscriptPersist) Execute(context cor.Context) {
	record := context.Get(t.GetInputParam()).(*model.TranscriptRecord)

	path, err := t.store.Save(record)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to persist transcript: %w", err))
		return
	}

	slog.InfoContext(context.GetContext(), "saved transliterated transcript", "path", path)
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), record)
}
