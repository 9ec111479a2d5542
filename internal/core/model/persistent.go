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
// This file contains the persistent artifact shapes: the objects that are
// written to the on-disk stores as pretty-printed UTF-8 JSON. The file path is
// the artifact's identity; there is no database and no secondary index.
package model

// TranscriptRecord is one fetched video transcript, stored at
// {transcripts root}/{channel_name}/{video_title}_{video_id}.json.
//
// The fetcher treats an existing record as immutable: the existence of the
// file short-circuits any re-fetch, and failed fetch attempts are persisted
// too (with Error set and Transcript nil) so they are not retried. The
// transliteration worker is the only writer permitted to mutate an existing
// record, and only to add TranscriptOriginal and rewrite Transcript.
type TranscriptRecord struct {
	ChannelName        string  `json:"channel_name"`
	VideoTitle         string  `json:"video_title"`
	VideoID            string  `json:"video_id"`
	VideoURL           string  `json:"video_url"`
	Transcript         *string `json:"transcript"`
	TranscriptOriginal *string `json:"transcript_original,omitempty"` // Pre-transliteration text; present only after the worker has run.
	Language           *string `json:"language"`
	IsGenerated        *bool   `json:"is_generated"`
	Error              *string `json:"error"`
}

// HasTranscript reports whether the record carries usable transcript text.
func (r *TranscriptRecord) HasTranscript() bool {
	return r.Transcript != nil && *r.Transcript != ""
}

// ScriptArtifact is one generated podcast script, stored at
// {scripts root}/{topic}/{char1}_{char2}_{length}min_{timestamp}.json.
//
// Prompt is always the exact text that was sent to the completion model,
// stored verbatim alongside the script for reproducibility and debugging.
type ScriptArtifact struct {
	Char1         string `json:"char1"`
	Char2         string `json:"char2"`
	Topic         string `json:"topic"`
	LengthMinutes int    `json:"length_minutes"`
	Timestamp     string `json:"timestamp"` // Wall-clock id in 20060102_150405 form; also embedded in the filename.
	Script        string `json:"script"`
	Prompt        string `json:"prompt"`
}
