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
// This file tests the on-disk transcript store: path construction, saving,
// listing, and the video-id lookup the fetcher uses as its cache check.
package services_test

import (
	"path/filepath"
	"testing"

	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/core/services"
	"github.com/zeebo/assert"
)

// TestTranscriptStoreRoundTrip saves a record and reads it back through both
// the path-based and the speaker/filename-based loaders.
func TestTranscriptStoreRoundTrip(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())

	rec := model.GetExampleTranscriptRecord("My Channel", "First Episode", "aaaabbbbccc")
	path, err := store.Save(rec)
	assert.NoError(t, err)
	assert.True(t, store.Exists(path))

	loaded, err := store.LoadPath(path)
	assert.NoError(t, err)
	assert.Equal(t, rec.VideoID, loaded.VideoID)
	assert.Equal(t, *rec.Transcript, *loaded.Transcript)

	// The speaker directory is the sanitized channel name.
	speakers, err := store.ListSpeakers()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(speakers))
	assert.Equal(t, "My Channel", speakers[0])

	files, err := store.ListTranscripts("My Channel")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(files))

	byName, err := store.Load("My Channel", files[0])
	assert.NoError(t, err)
	assert.Equal(t, rec.VideoURL, byName.VideoURL)
}

// TestTranscriptStorePathSanitizes verifies that unsafe characters in channel
// and title become underscores in the stored path, while the raw values stay
// untouched inside the record itself.
func TestTranscriptStorePathSanitizes(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())

	path := store.Path("Weird/Channel?", "Ep. 1: Origins", "aaaabbbbccc")
	assert.Equal(t, filepath.Join(store.BaseDir(), "Weird_Channel_", "Ep_ 1_ Origins_aaaabbbbccc.json"), path)
}

// TestFindByVideoID exercises the cache lookup: a saved record is found by
// its video id regardless of channel or title, and an unknown id misses.
func TestFindByVideoID(t *testing.T) {
	store := services.NewTranscriptStore(t.TempDir())

	rec := model.GetExampleTranscriptRecord("Channel A", "Title One", "aaaabbbbccc")
	saved, err := store.Save(rec)
	assert.NoError(t, err)

	found, ok := store.FindByVideoID("aaaabbbbccc")
	assert.True(t, ok)
	assert.Equal(t, saved, found)

	_, ok = store.FindByVideoID("zzzzyyyyxxx")
	assert.False(t, ok)
}

// TestListSpeakersEmpty verifies a missing base directory degrades to an
// empty listing rather than an error, since a fresh install has no data yet.
func TestListSpeakersEmpty(t *testing.T) {
	store := services.NewTranscriptStore(filepath.Join(t.TempDir(), "does-not-exist"))

	speakers, err := store.ListSpeakers()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(speakers))

	files, err := store.ListTranscripts("nobody")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(files))
}
