// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands_test contains unit tests for the individual chain
// commands. This file tests the prompt builder that renders the script
// prompt template from a sampled seed.
package commands_test

import (
	"testing"
	"text/template"

	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func newPromptSeed(lines1, lines2 []string) *model.PromptSeed {
	return &model.PromptSeed{
		Request: &model.ScriptRequest{
			Char1:         "Alice",
			Char2:         "Bob",
			Topic:         "The history of radio",
			LengthMinutes: 10,
		},
		Char1Samples: model.SpeakerSamples{Name: "Alice", Lines: lines1},
		Char2Samples: model.SpeakerSamples{Name: "Bob", Lines: lines2},
	}
}

// TestGenerateParamsEnglish checks the rendered parameter set for plain
// English samples: quoting, joining, and the default language.
func TestGenerateParamsEnglish(t *testing.T) {
	builder := commands.NewScriptPromptBuilder("build-script-prompt", nil)
	seed := newPromptSeed([]string{"hello there", "nice to meet you"}, []string{"likewise"})

	params := builder.GenerateParams(seed)
	assert.Equal(t, "Alice", params["CHAR1"])
	assert.Equal(t, "Bob", params["CHAR2"])
	assert.Equal(t, `"hello there", "nice to meet you"`, params["CHAR1_SAMPLES"])
	assert.Equal(t, `"likewise"`, params["CHAR2_SAMPLES"])
	assert.Equal(t, "The history of radio", params["TOPIC"])
	assert.Equal(t, 10, params["LENGTH_MINUTES"])
	assert.Equal(t, commands.ScriptLanguageEnglish, params["LANGUAGE"])
}

// TestGenerateParamsHinglish verifies a single Devanagari sample line from
// either speaker flips the language to Hinglish.
func TestGenerateParamsHinglish(t *testing.T) {
	builder := commands.NewScriptPromptBuilder("build-script-prompt", nil)

	seed := newPromptSeed([]string{"plain english"}, []string{"नमस्ते दोस्तों"})
	assert.Equal(t, commands.ScriptLanguageHinglish, builder.GenerateParams(seed)["LANGUAGE"])

	seed = newPromptSeed([]string{"थोड़ा हिंदी"}, []string{"plain english"})
	assert.Equal(t, commands.ScriptLanguageHinglish, builder.GenerateParams(seed)["LANGUAGE"])
}

// TestScriptPromptBuilderExecute renders a small template and checks the
// prompt lands both in the flow output and under the prompt parameter, where
// the persist step later picks it up.
func TestScriptPromptBuilderExecute(t *testing.T) {
	tmpl := template.Must(template.New("t").Parse(
		"Write a {{.LENGTH_MINUTES}} minute {{.LANGUAGE}} podcast between {{.CHAR1}} and {{.CHAR2}} about {{.TOPIC}}."))
	builder := commands.NewScriptPromptBuilder("build-script-prompt", tmpl)

	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, newPromptSeed([]string{"sample"}, nil))
	builder.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	want := "Write a 10 minute English podcast between Alice and Bob about The history of radio."
	assert.Equal(t, want, chainCtx.Get(cor.CtxOut))
	assert.Equal(t, want, chainCtx.Get(commands.ParamScriptPrompt))
}
