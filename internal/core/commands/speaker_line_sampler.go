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

// This file defines the first command of the script-generation chain.
// It draws example lines from each host's transcript pool so the
// prompt can show the model how that host actually talks.
//
// Logic Flow:
//  1. Receive the *model.ScriptRequest from the context.
//  2. For each of the two hosts, shuffle that host's transcript files,
//     then walk them in shuffled order splitting each transcript on
//     periods into trimmed candidate lines, stopping as soon as the
//     candidate pool reaches the requested count.
//  3. Uniformly sample min(n, pool) lines without replacement.
//  4. Emit a model.PromptSeed for the prompt builder. A host with no
//     transcripts yields an empty sample set, not an error; the prompt
//     simply carries no examples for that host.
package commands

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// SpeakerLineSampler draws per-speaker example lines from the
// transcript store.
type SpeakerLineSampler struct {
	cor.BaseCommand
	store              *services.TranscriptStore
	defaultSampleLines int
}

// NewSpeakerLineSampler is the constructor for the SpeakerLineSampler
// command. defaultSampleLines is used when a request does not specify
// a count.
func NewSpeakerLineSampler(name string, store *services.TranscriptStore, defaultSampleLines int) *SpeakerLineSampler {
	return &SpeakerLineSampler{
		BaseCommand:        *cor.NewBaseCommand(name),
		store:              store,
		defaultSampleLines: defaultSampleLines,
	}
}

// Execute samples lines for both hosts and emits the PromptSeed.
func (t *SpeakerLineSampler) Execute(context cor.Context) {
	req := context.Get(t.GetInputParam()).(*model.ScriptRequest)
	context.Add(ParamScriptRequest, req)

	n := req.SampleLines
	if n <= 0 {
		n = t.defaultSampleLines
	}

	seed := &model.PromptSeed{
		Request:      req,
		Char1Samples: t.sample(context, req.Char1, n),
		Char2Samples: t.sample(context, req.Char2, n),
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), seed)
}

// sample collects up to n example lines for one speaker. File order is
// shuffled so repeat generations do not keep quoting the same video,
// and the final pick is a uniform sample of the accumulated pool.
func (t *SpeakerLineSampler) sample(context cor.Context, speaker string, n int) model.SpeakerSamples {
	out := model.SpeakerSamples{Name: speaker, Lines: []string{}}

	files, err := t.store.ListTranscripts(speaker)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("list transcripts for %q: %w", speaker, err))
		return out
	}
	if len(files) == 0 {
		slog.WarnContext(context.GetContext(), "no transcripts found for speaker", "speaker", speaker)
		return out
	}

	rand.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })

	var pool []string
	for _, file := range files {
		record, err := t.store.Load(speaker, file)
		if err != nil {
			slog.WarnContext(context.GetContext(), "skipping unreadable transcript", "speaker", speaker, "file", file, "error", err)
			continue
		}
		if !record.HasTranscript() {
			continue
		}
		for _, candidate := range strings.Split(*record.Transcript, ".") {
			if candidate = strings.TrimSpace(candidate); candidate != "" {
				pool = append(pool, candidate)
			}
		}
		if len(pool) >= n {
			break
		}
	}

	count := n
	if len(pool) < count {
		count = len(pool)
	}
	for _, idx := range rand.Perm(len(pool))[:count] {
		out.Lines = append(out.Lines, pool[idx])
	}
	slog.InfoContext(context.GetContext(), "sampled speaker lines", "speaker", speaker, "requested", n, "sampled", count)
	return out
}
