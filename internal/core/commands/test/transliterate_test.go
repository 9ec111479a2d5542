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
// commands. This file tests the transcript transliterator: eligibility
// rules, chunking, and the keep-original fallback for failed chunks.
package commands_test

import (
	"errors"
	"testing"
	"text/template"

	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	test "github.com/podforge/podforge/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var passthroughTemplate = template.Must(template.New("translit").Parse("{{.TEXT}}"))

// TestNeedsTransliteration walks the eligibility rules: only Hindi records
// that still contain Devanagari and have not already been converted qualify.
func TestNeedsTransliteration(t *testing.T) {
	hindi := model.GetExampleHindiTranscriptRecord("C", "T", "aaaabbbbccc")
	assert.True(t, commands.NeedsTransliteration(hindi))

	english := model.GetExampleTranscriptRecord("C", "T", "aaaabbbbddd")
	assert.False(t, commands.NeedsTransliteration(english))

	// Hindi language tag but Latin-script text: nothing to convert.
	latin := model.GetExampleHindiTranscriptRecord("C", "T", "aaaabbbbeee")
	latinText := "namaste doston aaj hum baat karenge"
	latin.Transcript = &latinText
	assert.False(t, commands.NeedsTransliteration(latin))

	// No transcript at all.
	missing := model.GetExampleHindiTranscriptRecord("C", "T", "aaaabbbbfff")
	missing.Transcript = nil
	assert.False(t, commands.NeedsTransliteration(missing))

	// Already converted: the original differs from the current text.
	converted := model.GetExampleHindiTranscriptRecord("C", "T", "aaaabbbbggg")
	orig := "कुछ और"
	converted.TranscriptOriginal = &orig
	assert.False(t, commands.NeedsTransliteration(converted))
}

// TestTransliteratorIneligiblePassThrough verifies ineligible records flow
// through untouched and the changed marker is never set.
func TestTransliteratorIneligiblePassThrough(t *testing.T) {
	client := &test.StubCompletionClient{Reply: "should never be used"}
	cmd := commands.NewTranscriptTransliterator("transliterate-transcript", client, passthroughTemplate, 500)

	record := model.GetExampleTranscriptRecord("C", "T", "aaaabbbbccc")
	before := *record.Transcript

	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, record)
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Same(t, record, chainCtx.Get(cor.CtxOut))
	assert.Equal(t, before, *record.Transcript)
	assert.Nil(t, record.TranscriptOriginal)
	assert.Nil(t, chainCtx.Get(commands.ParamTranslitChanged))
	assert.Equal(t, 0, client.PromptCount())
}

// TestTransliteratorChunking verifies the transcript is split into word
// windows, each chunk goes through the model once, and the converted chunks
// are rejoined with single spaces.
func TestTransliteratorChunking(t *testing.T) {
	client := &test.StubCompletionClient{Reply: "OUT"}
	cmd := commands.NewTranscriptTransliterator("transliterate-transcript", client, passthroughTemplate, 2)

	record := model.GetExampleHindiTranscriptRecord("C", "T", "aaaabbbbccc")
	text := "एक दो तीन चार पाँच"
	record.Transcript = &text

	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, record)
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	// Five words in windows of two make three chunks.
	assert.Equal(t, 3, client.PromptCount())
	assert.Equal(t, []string{"एक दो", "तीन चार", "पाँच"}, client.Prompts)
	assert.Equal(t, "OUT OUT OUT", *record.Transcript)
	assert.Equal(t, "एक दो तीन चार पाँच", *record.TranscriptOriginal)
	assert.Equal(t, true, chainCtx.Get(commands.ParamTranslitChanged))
}

// TestTransliteratorKeepsFailedChunks verifies a model failure on one chunk
// keeps that chunk's original text instead of failing the record.
func TestTransliteratorKeepsFailedChunks(t *testing.T) {
	client := &test.StubCompletionClient{Err: errors.New("model unavailable")}
	cmd := commands.NewTranscriptTransliterator("transliterate-transcript", client, passthroughTemplate, 2)

	record := model.GetExampleHindiTranscriptRecord("C", "T", "aaaabbbbccc")
	text := "एक दो तीन"
	record.Transcript = &text

	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, record)
	cmd.Execute(chainCtx)

	// Transliteration is best effort: chunk failures are logged, not fatal.
	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "एक दो तीन", *record.Transcript)
	assert.Equal(t, "एक दो तीन", *record.TranscriptOriginal)
	assert.Equal(t, true, chainCtx.Get(commands.ParamTranslitChanged))
}
