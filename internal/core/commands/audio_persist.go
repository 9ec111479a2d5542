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

// This file defines the final command of the narration chain. It
// writes the stitched conversation to the audio store as
// {audio root}/{topic}/{char1}_{char2}_{timestamp}.{format}. WAV is
// written directly; any other requested container is produced by
// transcoding the WAV through ffmpeg.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/podforge/podforge/internal/core/audio"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// AudioPersist writes the final narration to the per-topic audio tree.
type AudioPersist struct {
	cor.BaseCommand
	audioDir   string
	ffmpegPath string
	runner     services.Runner
}

// NewAudioPersist is the constructor for the AudioPersist command. The
// runner executes ffmpeg for non-WAV output formats; tests stub it.
func NewAudioPersist(name string, audioDir string, ffmpegPath string, runner services.Runner) *AudioPersist {
	return &AudioPersist{
		BaseCommand: *cor.NewBaseCommand(name),
		audioDir:    audioDir,
		ffmpegPath:  ffmpegPath,
		runner:      runner,
	}
}

// Execute encodes the combined clip and emits the final file path.
func (t *AudioPersist) Execute(context cor.Context) {
	clip := context.Get(t.GetInputParam()).(*audio.Clip)
	req := context.Get(ParamNarrationRequest).(*model.NarrationRequest)

	format := strings.ToLower(strings.TrimPrefix(req.OutputFormat, "."))
	if format == "" {
		format = "wav"
	}

	topicDir := filepath.Join(t.audioDir, services.SanitizeFilename(req.Topic))
	if err := os.MkdirAll(topicDir, 0o755); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("create audio dir: %w", err))
		return
	}

	baseName := fmt.Sprintf("%s_%s_%s",
		services.SanitizeFilename(req.Char1),
		services.SanitizeFilename(req.Char2),
		time.Now().Format(artifactTimestampLayout),
	)
	finalPath := filepath.Join(topicDir, fmt.Sprintf("%s.%s", baseName, format))

	wavPath := finalPath
	if format != "wav" {
		wavPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s.wav", uuid.New().String()))
		context.AddTempFile(wavPath)
	}

	if err := writeClipFile(wavPath, clip); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	if format != "wav" {
		_, err := t.runner.Run(context.GetContext(), t.ffmpegPath, "-y", "-i", wavPath, finalPath)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("transcode to %s: %w", format, err))
			return
		}
	}

	slog.InfoContext(context.GetContext(), "saved narrated podcast", "path", finalPath, "duration", clip.Duration())
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamAudioPath, finalPath)
	context.Add(t.GetOutputParam(), finalPath)
}
