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
// commands. This file tests the three persist commands: script artifacts,
// narrated audio, and rewritten transcripts.
package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/podforge/podforge/internal/core/audio"
	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
	test "github.com/podforge/podforge/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// TestScriptPersist assembles an artifact from the chain state and verifies
// the saved file carries the script, the request fields, and the prompt.
func TestScriptPersist(t *testing.T) {
	store := services.NewScriptStore(t.TempDir())
	cmd := commands.NewScriptPersist("persist-script", store)

	req := &model.ScriptRequest{Char1: "Alice", Char2: "Bob", Topic: "Radio history", LengthMinutes: 15}

	chainCtx := newChainContext()
	chainCtx.Add(commands.ParamScriptRequest, req)
	chainCtx.Add(commands.ParamScriptPrompt, "the exact prompt")
	chainCtx.Add(cor.CtxIn, "Alice: Hello.\nBob: Hi.")
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	artifact, ok := chainCtx.Get(cor.CtxOut).(*model.ScriptArtifact)
	assert.True(t, ok)
	assert.Equal(t, "Alice: Hello.\nBob: Hi.", artifact.Script)
	assert.Equal(t, "the exact prompt", artifact.Prompt)
	assert.Equal(t, 15, artifact.LengthMinutes)

	savePath, ok := chainCtx.Get(commands.ParamScriptPath).(string)
	assert.True(t, ok)
	assert.FileExists(t, savePath)
	assert.True(t, strings.HasPrefix(filepath.Base(savePath), "Alice_Bob_15min_"))

	loaded, err := store.Load("Radio history", filepath.Base(savePath))
	assert.NoError(t, err)
	assert.Equal(t, artifact.Script, loaded.Script)
}

// TestAudioPersistWAV verifies a wav request writes the clip directly into
// the topic directory with no transcoder involvement.
func TestAudioPersistWAV(t *testing.T) {
	audioDir := t.TempDir()
	runner := &test.CountingRunner{}
	cmd := commands.NewAudioPersist("persist-audio", audioDir, "ffmpeg", runner)

	clip := audio.Silence(100*time.Millisecond, 24000)
	req := &model.NarrationRequest{Char1: "Alice", Char2: "Bob", Topic: "Radio history"}

	chainCtx := newChainContext()
	chainCtx.Add(commands.ParamNarrationRequest, req)
	chainCtx.Add(cor.CtxIn, clip)
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 0, runner.CallCount())

	path, ok := chainCtx.Get(commands.ParamAudioPath).(string)
	assert.True(t, ok)
	assert.Equal(t, path, chainCtx.Get(cor.CtxOut))
	assert.Equal(t, filepath.Join(audioDir, "Radio history"), filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Alice_Bob_"))
	assert.True(t, strings.HasSuffix(path, ".wav"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	decoded, err := audio.DecodeWAV(data)
	assert.NoError(t, err)
	assert.Equal(t, clip.Samples, decoded.Samples)
}

// TestAudioPersistTranscodes verifies a non-wav format goes through a temp
// wav file and one ffmpeg invocation targeting the final path.
func TestAudioPersistTranscodes(t *testing.T) {
	audioDir := t.TempDir()
	runner := &test.CountingRunner{}
	cmd := commands.NewAudioPersist("persist-audio", audioDir, "ffmpeg", runner)

	req := &model.NarrationRequest{Char1: "Alice", Char2: "Bob", Topic: "Radio history", OutputFormat: "MP3"}

	chainCtx := newChainContext()
	defer chainCtx.Close()
	chainCtx.Add(commands.ParamNarrationRequest, req)
	chainCtx.Add(cor.CtxIn, audio.Silence(100*time.Millisecond, 24000))
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 1, runner.CallCount())

	call := runner.Calls[0]
	assert.Equal(t, "ffmpeg", call[0])
	finalPath := call[len(call)-1]
	assert.True(t, strings.HasSuffix(finalPath, ".mp3"))
	assert.Equal(t, finalPath, chainCtx.Get(commands.ParamAudioPath))

	// The intermediate wav is registered for cleanup.
	assert.Len(t, chainCtx.GetTempFiles(), 1)
	assert.True(t, strings.HasSuffix(chainCtx.GetTempFiles()[0], ".wav"))
}

// TestTranscriptPersistGated verifies the persist step runs only when the
// transliterator marked the record as changed, so untouched records are
// never rewritten on disk.
func TestTranscriptPersistGated(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())
	cmd := commands.NewTranscriptPersist("persist-transcript", store)

	record := model.GetExampleTranscriptRecord("C", "T", "aaaabbbbccc")

	chainCtx := newChainContext()
	chainCtx.Add(cor.CtxIn, record)
	assert.False(t, cmd.IsExecutable(chainCtx))

	chainCtx.Add(commands.ParamTranslitChanged, true)
	assert.True(t, cmd.IsExecutable(chainCtx))

	cmd.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())

	path, ok := store.FindByVideoID("aaaabbbbccc")
	assert.True(t, ok)
	loaded, err := store.LoadPath(path)
	assert.NoError(t, err)
	assert.Equal(t, record.VideoID, loaded.VideoID)
}
