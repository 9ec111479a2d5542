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
	"time"

	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// artifactTimestampLayout is the wall-clock id embedded in script and
// audio file names. Concurrent requests for the same pairing get
// distinct files as long as they land in different seconds; the store
// does not deduplicate beyond that.
const artifactTimestampLayout = "20060102_150405"

// ScriptPersist assembles the ScriptArtifact from the completion text
// plus the request and prompt stashed earlier in the chain, and writes
// it through the script store.
type ScriptPersist struct {
	cor.BaseCommand
	store *services.ScriptStore
}

// NewScriptPersist is the constructor for the ScriptPersist command.
func NewScriptPersist(name string, store *services.ScriptStore) *ScriptPersist {
	return &ScriptPersist{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
	}
}

// Execute writes the artifact and emits it as the chain result. The
// prompt is stored verbatim so any script can be traced back to the
// exact text that produced it.
func (t *ScriptPersist) Execute(context cor.Context) {
	script := context.Get(t.GetInputParam()).(string)
	req := context.Get(ParamScriptRequest).(*model.ScriptRequest)
	prompt := context.Get(ParamScriptPrompt).(string)

	artifact := &model.ScriptArtifact{
		Char1:         req.Char1,
		Char2:         req.Char2,
		Topic:         req.Topic,
		LengthMinutes: req.LengthMinutes,
		Timestamp:     time.Now().Format(artifactTimestampLayout),
		Script:        script,
		Prompt:        prompt,
	}

	path, err := t.store.Save(artifact)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to persist script: %w", err))
		return
	}
	slog.InfoContext(context.GetContext(), "saved generated script", "path", path, "topic", req.Topic)

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamScriptPath, path)
	context.Add(t.GetOutputParam(), artifact)
}
