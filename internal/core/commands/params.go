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

// Package commands provides the concrete implementations of the Chain
// of Responsibility pattern's Command interface: the steps that make
// up the script-generation, narration, and transliteration workflows.
// This file defines the named context parameters the commands use to
// share values beyond the chain's primary input/output pipe.
package commands

const (
	// ParamScriptRequest holds the *model.ScriptRequest for the whole
	// generation chain; set by the sampler, read by the persister.
	ParamScriptRequest = "script.request"

	// ParamScriptPrompt holds the rendered prompt text so the persister
	// can store it verbatim next to the script it produced.
	ParamScriptPrompt = "script.prompt"

	// ParamScriptPath holds the path the script artifact was written to.
	ParamScriptPath = "script.path"

	// ParamNarrationRequest holds the *model.NarrationRequest for the
	// whole narration chain; set by the parser, read by the persister.
	ParamNarrationRequest = "narration.request"

	// ParamAudioPath holds the path the narrated audio was written to.
	ParamAudioPath = "narration.audio_path"

	// ParamTranslitChanged marks a transcript record whose text was
	// rewritten by the transliterator and needs persisting.
	ParamTranslitChanged = "translit.changed"
)
