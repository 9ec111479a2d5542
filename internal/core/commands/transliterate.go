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

// This file defines the command that rewrites Hindi transcripts from
// Devanagari into Latin script (Hinglish) through a completion model.
//
// Eligibility is content based, not flag based: a record is processed
// only when its language is "hi", it has transcript text containing
// Devanagari, and it does not already look transliterated (original
// present and different from the transcript). The check has a known
// gap: a record whose transliteration was interrupted after writing
// transcript_original but before the new transcript would be skipped
// on rerun. Saves write both fields together to keep that window as
// small as a single file write.
//
// Failure policy is the opposite of the narrator's: a chunk that fails
// to transliterate is kept in its original Devanagari form and the
// worker moves on. A partially readable transcript is more useful than
// none, and the next scan will not retry it once the record looks
// transliterated.
package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
)

// TranscriptTransliterator rewrites one transcript record in place,
// chunk by chunk.
type TranscriptTransliterator struct {
	cor.BaseCommand
	client     backends.CompletionClient
	template   *template.Template
	chunkWords int
}

// NewTranscriptTransliterator is the constructor for the
// TranscriptTransliterator command. chunkWords bounds how much text
// goes into a single completion call; small local models degrade
// badly past a few hundred words of strict transliteration.
func NewTranscriptTransliterator(name string, client backends.CompletionClient, tmpl *template.Template, chunkWords int) *TranscriptTransliterator {
	return &TranscriptTransliterator{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		template:    tmpl,
		chunkWords:  chunkWords,
	}
}

// NeedsTransliteration applies the eligibility check described in the
// file comment.
func NeedsTransliteration(record *model.TranscriptRecord) bool {
	if record.Language == nil || *record.Language != "hi" {
		return false
	}
	if !record.HasTranscript() {
		return false
	}
	if !services.ContainsDevanagari(*record.Transcript) {
		return false
	}
	if record.TranscriptOriginal != nil && *record.TranscriptOriginal != *record.Transcript {
		return false
	}
	return true
}

// Execute transliterates the record when eligible and flags it as
// changed so a downstream persister saves it. Ineligible records pass
// through untouched.
func (t *TranscriptTransliterator) Execute(context cor.Context) {
	record := context.Get(t.GetInputParam()).(*model.TranscriptRecord)

	if !NeedsTransliteration(record) {
		slog.DebugContext(context.GetContext(), "record not eligible for transliteration", "video_id", record.VideoID)
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(t.GetOutputParam(), record)
		return
	}

	original := *record.Transcript
	chunks := chunkWords(original, t.chunkWords)
	converted := make([]string, 0, len(chunks))
	for idx, chunk := range chunks {
		out, err := t.transliterateChunk(context, chunk)
		if err != nil {
			slog.WarnContext(context.GetContext(), "chunk transliteration failed, keeping original text",
				"video_id", record.VideoID, "chunk", idx+1, "chunks", len(chunks), "error", err)
			t.GetErrorCounter().Add(context.GetContext(), 1)
			converted = append(converted, chunk)
			continue
		}
		converted = append(converted, out)
	}

	transliterated := strings.Join(converted, " ")
	record.TranscriptOriginal = &original
	record.Transcript = &transliterated

	slog.InfoContext(context.GetContext(), "transliterated transcript", "video_id", record.VideoID, "chunks", len(chunks))
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamTranslitChanged, true)
	context.Add(t.GetOutputParam(), record)
}

func (t *TranscriptTransliterator) transliterateChunk(context cor.Context, chunk string) (string, error) {
	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, map[string]interface{}{"TEXT": chunk}); err != nil {
		return "", fmt.Errorf("execute transliteration template: %w", err)
	}
	return t.client.Complete(context.GetContext(), buffer.String())
}

// chunkWords splits text into windows of at most max whitespace-
// separated words, preserving word order.
func chunkWords(text string, max int) []string {
	words := strings.Fields(text)
	if max <= 0 {
		max = len(words)
	}
	var chunks []string
	for start := 0; start < len(words); start += max {
		end := start + max
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
