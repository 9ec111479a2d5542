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

// Package workflow defines the high-level business logic
// orchestrations, combining commands into coherent pipelines. This
// file implements the script-generation workflow: transcript samples
// in, persisted podcast script out.
package workflow

import (
	"text/template"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/services"
)

// ScriptGenerationWorkflow turns a ScriptRequest into a persisted
// ScriptArtifact. It is structured as a chain of commands: sample
// example lines per host, build the prompt, run the completion, and
// persist the result. The workflow is bound to one completion model at
// construction; the server keeps one workflow per configured model and
// routes requests by the model name they carry.
type ScriptGenerationWorkflow struct {
	cor.BaseCommand
	config          *backends.Config
	client          backends.CompletionClient
	transcriptStore *services.TranscriptStore
	scriptStore     *services.ScriptStore
	promptTemplate  *template.Template
	chain           cor.Chain
}

// Execute runs the generation chain. The context's CtxIn must hold a
// *model.ScriptRequest.
func (w *ScriptGenerationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain wires the four generation steps together. The
// chain's flip-flop piping carries the primary value between steps;
// the request and prompt travel on named context params so the
// persister can reach them.
func (w *ScriptGenerationWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewSpeakerLineSampler("sample-speaker-lines", w.transcriptStore, w.config.Generation.DefaultSampleLines))
	out.AddCommand(commands.NewScriptPromptBuilder("build-script-prompt", w.promptTemplate))
	out.AddCommand(commands.NewScriptCompletion("generate-script", w.client))
	out.AddCommand(commands.NewScriptPersist("persist-script", w.scriptStore))
	w.chain = out
}

// NewScriptGenerationWorkflow is the constructor for the workflow,
// bound to the named completion model from the clients container. It
// panics on an unparseable prompt template: the application cannot do
// anything useful without one.
func NewScriptGenerationWorkflow(
	config *backends.Config,
	serviceClients *backends.ServiceClients,
	modelName string,
	transcriptStore *services.TranscriptStore,
	scriptStore *services.ScriptStore) *ScriptGenerationWorkflow {

	promptTemplate, err := template.New("script-prompt").Parse(config.PromptTemplates.Script)
	if err != nil {
		panic(err)
	}

	pipeline := &ScriptGenerationWorkflow{
		BaseCommand:     *cor.NewBaseCommand("script-generation-pipeline"),
		config:          config,
		client:          serviceClients.CompletionClients[modelName],
		transcriptStore: transcriptStore,
		scriptStore:     scriptStore,
		promptTemplate:  promptTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
