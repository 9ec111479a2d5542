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

// This file defines the command that voices each parsed dialogue line
// through the selected speech backend. Clips are written to
// uuid-named temp files registered with the context, so they are
// removed when the workflow closes, on success and failure paths
// alike.
//
// Failure policy: any single line that fails to synthesize aborts the
// whole narration. A podcast with a hole in the middle of the
// conversation is worse than no podcast, so there is no best-effort
// mode here.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/audio"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
)

// expressionPattern matches the bracketed stage directions the script
// prompt asks for ("[laughs]", "[thoughtful pause]").
var expressionPattern = regexp.MustCompile(`\[[^\]]*\]`)

// LineSynthesizer converts tagged script lines into per-line audio
// clip files.
type LineSynthesizer struct {
	cor.BaseCommand
	synthesizer      backends.SpeechSynthesizer
	stripExpressions bool
}

// NewLineSynthesizer is the constructor for the LineSynthesizer
// command. stripExpressions controls whether bracketed stage
// directions are removed before synthesis; cloud voices read them out
// loud, while some local engines interpret them as delivery cues.
func NewLineSynthesizer(name string, synthesizer backends.SpeechSynthesizer, stripExpressions bool) *LineSynthesizer {
	return &LineSynthesizer{
		BaseCommand:      *cor.NewBaseCommand(name),
		synthesizer:      synthesizer,
		stripExpressions: stripExpressions,
	}
}

// Execute voices each line with the backend voice assigned to its
// speaker and emits the clip file paths in line order.
func (t *LineSynthesizer) Execute(context cor.Context) {
	lines := context.Get(t.GetInputParam()).([]model.ScriptLine)
	voiceOne, voiceTwo := t.synthesizer.Voices()

	var clipPaths []string
	for idx, line := range lines {
		text := line.Text
		if t.stripExpressions {
			text = strings.TrimSpace(expressionPattern.ReplaceAllString(text, ""))
		}
		if text == "" {
			slog.DebugContext(context.GetContext(), "skipping line empty after expression strip", "line_index", idx)
			continue
		}

		voice := voiceOne
		if line.Speaker == model.SpeakerTwo {
			voice = voiceTwo
		}

		clip, err := t.synthesizer.Synthesize(context.GetContext(), text, voice)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("synthesis failed on line %d (%s): %w", idx, line.Name, err))
			return
		}

		path := filepath.Join(os.TempDir(), fmt.Sprintf("%s.wav", uuid.New().String()))
		context.AddTempFile(path)
		if err := writeClipFile(path, clip); err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), err)
			return
		}
		clipPaths = append(clipPaths, path)
	}

	if len(clipPaths) == 0 {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), errors.New("no audio segments generated"))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), clipPaths)
}

func writeClipFile(path string, clip *audio.Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create clip file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := audio.EncodeWAV(f, clip); err != nil {
		return fmt.Errorf("encode clip %s: %w", path, err)
	}
	return nil
}
