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
	"os"
	"time"

	"github.com/podforge/podforge/internal/core/audio"
	"github.com/podforge/podforge/internal/core/cor"
)

// ClipStitcher concatenates the per-line clips into one conversation
// track, inserting a short silence between clips so the dialogue
// breathes, and optionally applies the configured playback speedup.
// The speedup reinterprets the sample rate and resamples back to the
// nominal rate, which raises pitch along with tempo; that coupling is
// accepted, it makes local-engine narrations sound less drowsy.
type ClipStitcher struct {
	cor.BaseCommand
	lineGap       time.Duration
	playbackSpeed float64
}

// NewClipStitcher is the constructor for the ClipStitcher command.
// playbackSpeed of 0 or 1 means no adjustment.
func NewClipStitcher(name string, lineGap time.Duration, playbackSpeed float64) *ClipStitcher {
	return &ClipStitcher{
		BaseCommand:   *cor.NewBaseCommand(name),
		lineGap:       lineGap,
		playbackSpeed: playbackSpeed,
	}
}

// Execute decodes the clip files in line order and emits the combined
// clip.
func (t *ClipStitcher) Execute(context cor.Context) {
	paths := context.Get(t.GetInputParam()).([]string)

	clips := make([]*audio.Clip, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("read clip %s: %w", path, err))
			return
		}
		clip, err := audio.DecodeWAV(data)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("decode clip %s: %w", path, err))
			return
		}
		clips = append(clips, clip)
	}

	combined, err := audio.Concat(clips, t.lineGap)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("stitch clips: %w", err))
		return
	}

	if t.playbackSpeed > 0 && t.playbackSpeed != 1 {
		combined, err = audio.Speedup(combined, t.playbackSpeed)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), fmt.Errorf("apply playback speed: %w", err))
			return
		}
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), combined)
}
