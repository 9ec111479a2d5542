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

// Package services_test contains the test suite for the services package.
// This file tests the transcript fetcher against a scripted command runner,
// so no real yt-dlp binary or network access is involved.
package services_test

import (
	"context"
	"testing"

	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
	test "github.com/podforge/podforge/internal/testutil"
	"github.com/zeebo/assert"
)

// TestFetchTranscriptCacheHit verifies the store short-circuit: a video with
// an existing record, including a failure record, must never trigger another
// yt-dlp invocation.
func TestFetchTranscriptCacheHit(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())
	runner := &test.CountingRunner{}
	fetcher := services.NewTranscriptFetcher("yt-dlp", store, runner)

	rec := model.GetExampleTranscriptRecord("Cached Channel", "Cached Title", "cachedvid01")
	_, err := store.Save(rec)
	assert.NoError(t, err)

	got, err := fetcher.FetchTranscript(context.Background(), "cachedvid01")
	assert.NoError(t, err)
	assert.Equal(t, "cachedvid01", got.VideoID)
	assert.True(t, got.HasTranscript())
	assert.Equal(t, 0, runner.CallCount())

	// Failure records are cached the same way.
	msg := "no transcript available in any language"
	failed := &model.TranscriptRecord{
		ChannelName: "unknown_channel",
		VideoTitle:  "unknown_title",
		VideoID:     "failedvid01",
		VideoURL:    "https://youtu.be/failedvid01",
		Error:       &msg,
	}
	_, err = store.Save(failed)
	assert.NoError(t, err)

	got, err = fetcher.FetchTranscript(context.Background(), "failedvid01")
	assert.NoError(t, err)
	assert.False(t, got.HasTranscript())
	assert.NotNil(t, got.Error)
	assert.Equal(t, 0, runner.CallCount())
}

// TestFetchTranscriptNoSubtitles walks the full miss path with a runner whose
// subtitle attempts all come back empty. The metadata probe succeeds, every
// rung of the subtitle ladder is tried, and the resulting failure record is
// persisted so the miss is cached.
func TestFetchTranscriptNoSubtitles(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())
	runner := &test.CountingRunner{
		Outputs: [][]byte{
			[]byte(`{"channel": "Some Channel", "title": "Some Title"}`),
			[]byte(""),
		},
	}
	fetcher := services.NewTranscriptFetcher("yt-dlp", store, runner)

	rec, err := fetcher.FetchTranscript(context.Background(), "nosubsvid01")
	assert.NoError(t, err)
	assert.False(t, rec.HasTranscript())
	assert.NotNil(t, rec.Error)
	assert.Equal(t, "no transcript available in any language", *rec.Error)
	assert.Equal(t, "Some Channel", rec.ChannelName)
	assert.Equal(t, "Some Title", rec.VideoTitle)
	// One metadata probe plus all four subtitle attempts.
	assert.Equal(t, 5, runner.CallCount())

	// The failure record is on disk, so a retry is answered from cache.
	_, err = fetcher.FetchTranscript(context.Background(), "nosubsvid01")
	assert.NoError(t, err)
	assert.Equal(t, 5, runner.CallCount())
}

// TestFetchTranscriptFromURL covers the accepted URL shapes and the unsaved
// validation record an unrecognizable URL yields.
func TestFetchTranscriptFromURL(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())
	runner := &test.CountingRunner{}
	fetcher := services.NewTranscriptFetcher("yt-dlp", store, runner)

	rec := model.GetExampleTranscriptRecord("C", "T", "aaaabbbbccc")
	_, err := store.Save(rec)
	assert.NoError(t, err)

	for _, url := range []string{
		"https://www.youtube.com/watch?v=aaaabbbbccc",
		"https://youtu.be/aaaabbbbccc",
		"https://www.youtube.com/watch?v=aaaabbbbccc&t=42s",
	} {
		got, err := fetcher.FetchTranscriptFromURL(context.Background(), url)
		assert.NoError(t, err)
		assert.Equal(t, "aaaabbbbccc", got.VideoID)
	}
	assert.Equal(t, 0, runner.CallCount())

	bad, err := fetcher.FetchTranscriptFromURL(context.Background(), "https://example.com/not-a-video")
	assert.NoError(t, err)
	assert.NotNil(t, bad.Error)
	assert.Equal(t, "invalid YouTube video URL", *bad.Error)
	// Nothing was saved for the invalid URL.
	_, ok := store.FindByVideoID("not-a-video")
	assert.False(t, ok)
}

// TestListChannelVideos verifies handle expansion, shorts filtering, malformed
// line tolerance, and the requested-count cutoff.
func TestListChannelVideos(t *testing.T) {
	playlist := `{"id": "video000001", "url": "https://www.youtube.com/watch?v=video000001"}
not json at all
{"id": "short", "url": "https://www.youtube.com/shorts/short"}
{"id": "video000002", "url": "https://www.youtube.com/shorts/video000002"}
{"id": "video000003", "url": "https://www.youtube.com/watch?v=video000003"}
{"id": "video000004", "url": "https://www.youtube.com/watch?v=video000004"}
`
	runner := &test.CountingRunner{Outputs: [][]byte{[]byte(playlist)}}
	store := services.NewTranscriptStore(t.TempDir())
	fetcher := services.NewTranscriptFetcher("yt-dlp", store, runner)

	ids, err := fetcher.ListChannelVideos(context.Background(), "@somechannel", 2)
	assert.NoError(t, err)
	assert.DeepEqual(t, []string{"video000001", "video000003"}, ids)

	// The handle was expanded to the channel's videos tab.
	call := runner.Calls[0]
	assert.Equal(t, "https://www.youtube.com/@somechannel/videos", call[len(call)-1])
}
