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

// This file defines the command that turns a PromptSeed into the final
// prompt text. The script language is decided here: if any sampled
// line from either host contains Devanagari script the prompt asks for
// Hinglish (Hindi in Latin script mixed with English), otherwise plain
// English. The decision looks at the samples, not at the records'
// language fields, so a mislabeled transcript still gets the right
// treatment.
package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// Script language values injected into the prompt template.
const (
	ScriptLanguageEnglish  = "English"
	ScriptLanguageHinglish = "Hinglish"
)

// ScriptPromptBuilder renders the script-generation prompt from a Go
// template held in configuration.
type ScriptPromptBuilder struct {
	cor.BaseCommand
	template *template.Template
}

// NewScriptPromptBuilder is the constructor for the ScriptPromptBuilder
// command.
func NewScriptPromptBuilder(name string, template *template.Template) *ScriptPromptBuilder {
	return &ScriptPromptBuilder{
		BaseCommand: *cor.NewBaseCommand(name),
		template:    template,
	}
}

// GenerateParams creates the map of dynamic data injected into the
// prompt template. Sample lines are embedded verbatim, quoted and
// comma-separated, so the model sees each host's real phrasing.
func (t *ScriptPromptBuilder) GenerateParams(seed *model.PromptSeed) map[string]interface{} {
	language := ScriptLanguageEnglish
	for _, line := range append(seed.Char1Samples.Lines, seed.Char2Samples.Lines...) {
		if services.ContainsDevanagari(line) {
			language = ScriptLanguageHinglish
			break
		}
	}

	return map[string]interface{}{
		"CHAR1":          seed.Request.Char1,
		"CHAR2":          seed.Request.Char2,
		"CHAR1_SAMPLES":  quoteLines(seed.Char1Samples.Lines),
		"CHAR2_SAMPLES":  quoteLines(seed.Char2Samples.Lines),
		"TOPIC":          seed.Request.Topic,
		"LENGTH_MINUTES": seed.Request.LengthMinutes,
		"LANGUAGE":       language,
	}
}

// Execute renders the prompt and publishes it both as the chain output
// and under ParamScriptPrompt for the persister.
func (t *ScriptPromptBuilder) Execute(context cor.Context) {
	seed := context.Get(t.GetInputParam()).(*model.PromptSeed)

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(seed)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	prompt := buffer.String()
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamScriptPrompt, prompt)
	context.Add(t.GetOutputParam(), prompt)
}

func quoteLines(lines []string) string {
	quoted := make([]string, 0, len(lines))
	for _, line := range lines {
		quoted = append(quoted, fmt.Sprintf("%q", line))
	}
	return strings.Join(quoted, ", ")
}
