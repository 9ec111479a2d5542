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

// This file implements the narration workflow: a generated script in,
// a stitched audio file out. One workflow instance is bound to one
// speech backend; the server keeps a workflow per configured backend
// and routes requests by the backend name they carry.
package workflow

import (
	"time"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/services"
)

// NarrationWorkflow turns a NarrationRequest into a narrated audio
// file: parse the script into tagged lines, voice each line, stitch
// the clips with breathing gaps, and persist the result. Per-line clip
// files are temp files tracked by the context, removed when the caller
// closes it.
type NarrationWorkflow struct {
	cor.BaseCommand
	config      *backends.Config
	backendCfg  backends.TTSBackend
	synthesizer backends.SpeechSynthesizer
	runner      services.Runner
	chain       cor.Chain
}

// Execute runs the narration chain. The context's CtxIn must hold a
// *model.NarrationRequest.
func (w *NarrationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *NarrationWorkflow) initializeChain() {
	lineGap := time.Duration(w.config.Generation.LineGapMillis) * time.Millisecond

	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewScriptLineParser("parse-script-lines"))
	out.AddCommand(commands.NewLineSynthesizer("synthesize-lines", w.synthesizer, w.backendCfg.StripExpressions))
	out.AddCommand(commands.NewClipStitcher("stitch-clips", lineGap, w.backendCfg.PlaybackSpeed))
	out.AddCommand(commands.NewAudioPersist("persist-audio", w.config.Storage.AudioDir, w.config.Tools.FFmpegPath, w.runner))
	w.chain = out
}

// NewNarrationWorkflow is the constructor for the workflow, bound to
// the named TTS backend from the clients container.
func NewNarrationWorkflow(
	config *backends.Config,
	serviceClients *backends.ServiceClients,
	backendName string,
	runner services.Runner) *NarrationWorkflow {

	pipeline := &NarrationWorkflow{
		BaseCommand: *cor.NewBaseCommand("narration-pipeline"),
		config:      config,
		backendCfg:  config.TTSBackends[backendName],
		synthesizer: serviceClients.Synthesizers[backendName],
		runner:      runner,
	}
	pipeline.initializeChain()
	return pipeline
}
