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

// This file defines the first command of the narration chain. It turns
// the free-text script into tagged dialogue lines.
//
// Matching is an exact prefix check, "{char1}:" tried before
// "{char2}:", against each trimmed non-blank line. Anything else
// (stage directions, markdown headers, model chatter) is skipped with
// a log line rather than treated as an error: generated scripts are
// never perfectly clean and a skipped line costs nothing.
package commands

import (
	"log/slog"
	"strings"

	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
)

// ScriptLineParser extracts the spoken dialogue lines from a narration
// request's script.
type ScriptLineParser struct {
	cor.BaseCommand
}

// NewScriptLineParser is the constructor for the ScriptLineParser
// command.
func NewScriptLineParser(name string) *ScriptLineParser {
	return &ScriptLineParser{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses the script and emits the recognized lines in script
// order. The text of each line is everything after the first colon,
// trimmed; lines that end up empty are skipped too.
func (t *ScriptLineParser) Execute(context cor.Context) {
	req := context.Get(t.GetInputParam()).(*model.NarrationRequest)
	context.Add(ParamNarrationRequest, req)

	var lines []model.ScriptLine
	for idx, raw := range strings.Split(req.Script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		var speaker model.Speaker
		var name string
		switch {
		case strings.HasPrefix(line, req.Char1+":"):
			speaker, name = model.SpeakerOne, req.Char1
		case strings.HasPrefix(line, req.Char2+":"):
			speaker, name = model.SpeakerTwo, req.Char2
		default:
			slog.DebugContext(context.GetContext(), "skipping line without speaker prefix", "line_index", idx)
			continue
		}

		text := strings.TrimSpace(line[strings.Index(line, ":")+1:])
		if text == "" {
			slog.DebugContext(context.GetContext(), "skipping empty dialogue line", "line_index", idx, "speaker", name)
			continue
		}
		lines = append(lines, model.ScriptLine{Speaker: speaker, Name: name, Text: text})
	}

	slog.InfoContext(context.GetContext(), "parsed script lines", "recognized", len(lines))
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), lines)
}
