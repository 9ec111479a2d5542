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

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/cor"
)

// ScriptCompletion submits the rendered prompt to a completion backend
// and emits the raw script text. The client owns its own timeout and
// rate limiting; a failed completion fails the chain, and nothing is
// persisted downstream.
type ScriptCompletion struct {
	cor.BaseCommand
	client backends.CompletionClient
}

// NewScriptCompletion is the constructor for the ScriptCompletion
// command.
func NewScriptCompletion(name string, client backends.CompletionClient) *ScriptCompletion {
	return &ScriptCompletion{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
	}
}

// Execute sends the prompt and pipes the completion to the next
// command.
func (t *ScriptCompletion) Execute(context cor.Context) {
	prompt := context.Get(t.GetInputParam()).(string)

	script, err := t.client.Complete(context.GetContext(), prompt)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("script completion failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), script)
}
