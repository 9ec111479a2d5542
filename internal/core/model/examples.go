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

// Package model defines the core data structures for the application.
// This file provides example instances of the persistent artifacts. They are
// used by the test suite to seed stores with well-formed data.
package model

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// GetExampleTranscriptRecord returns a well-formed English transcript record
// for the given channel and video identity.
func GetExampleTranscriptRecord(channel, title, videoID string) *TranscriptRecord {
	return &TranscriptRecord{
		ChannelName: channel,
		VideoTitle:  title,
		VideoID:     videoID,
		VideoURL:    "https://youtu.be/" + videoID,
		Transcript:  strPtr("Welcome back to the channel. Today we talk about the history of radio. It is a longer story than most people think."),
		Language:    strPtr("en"),
		IsGenerated: boolPtr(false),
	}
}

// GetExampleHindiTranscriptRecord returns a Hindi record whose transcript is
// written in Devanagari, the shape the transliteration worker operates on.
func GetExampleHindiTranscriptRecord(channel, title, videoID string) *TranscriptRecord {
	return &TranscriptRecord{
		ChannelName: channel,
		VideoTitle:  title,
		VideoID:     videoID,
		VideoURL:    "https://youtu.be/" + videoID,
		Transcript:  strPtr("नमस्ते दोस्तों आज हम बात करेंगे. यह एक लंबी कहानी है."),
		Language:    strPtr("hi"),
		IsGenerated: boolPtr(true),
	}
}

// GetExampleScriptArtifact returns a small two-host script artifact with the
// prompt stored verbatim, as the generator persists it.
func GetExampleScriptArtifact() *ScriptArtifact {
	return &ScriptArtifact{
		Char1:         "Alice",
		Char2:         "Bob",
		Topic:         "The history of radio",
		LengthMinutes: 10,
		Timestamp:     "20240101_120000",
		Script:        "Alice: [smiling] Welcome to the show.\nBob: [laughs] Glad to be here.",
		Prompt:        "You are an expert podcast scriptwriter.",
	}
}
