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

// Package services contains the business logic for the artifact stores
// and the transcript fetcher. This file defines the TranscriptStore,
// the data access layer for transcript records. Records live in a
// per-channel directory tree on the local filesystem:
//
//	<transcripts_dir>/<channel>/<title>_<videoID>.json
//
// There is no index or database in front of the tree; the directory
// layout is the index.
package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/podforge/podforge/internal/core/model"
)

// TranscriptStore reads and writes transcript records under a single
// base directory. The zero value is not usable; construct one with
// NewTranscriptStore.
type TranscriptStore struct {
	baseDir string
}

// NewTranscriptStore creates a store rooted at baseDir. The directory
// is created on first Save, not here, so a read-only deployment can
// point at an existing tree.
func NewTranscriptStore(baseDir string) *TranscriptStore {
	return &TranscriptStore{baseDir: baseDir}
}

// BaseDir returns the root of the transcript tree.
func (s *TranscriptStore) BaseDir() string { return s.baseDir }

// ListSpeakers returns the channel directory names in sorted order.
// A missing base directory is an empty store, not an error.
func (s *TranscriptStore) ListSpeakers() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	speakers := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			speakers = append(speakers, e.Name())
		}
	}
	sort.Strings(speakers)
	return speakers, nil
}

// ListTranscripts returns the record file names for one channel in
// sorted order. A channel with no directory has no transcripts.
func (s *TranscriptStore) ListTranscripts(speaker string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, speaker))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list transcripts for %q: %w", speaker, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Path returns the record location for a channel, title and video ID.
// Channel and title pass through SanitizeFilename; the video ID is
// already filename-safe and is appended verbatim so the same video
// always maps to the same file.
func (s *TranscriptStore) Path(channel string, title string, videoID string) string {
	return filepath.Join(
		s.baseDir,
		SanitizeFilename(channel),
		fmt.Sprintf("%s_%s.json", SanitizeFilename(title), videoID),
	)
}

// FindByVideoID scans the channel directories for a record whose file
// name ends in the given video ID. It lets the fetcher answer from the
// cache without probing video metadata first: the channel and title
// that make up the rest of the path are only known after a probe, but
// the ID suffix alone identifies the record.
func (s *TranscriptStore) FindByVideoID(videoID string) (string, bool) {
	suffix := fmt.Sprintf("_%s.json", videoID)
	speakers, err := s.ListSpeakers()
	if err != nil {
		return "", false
	}
	for _, speaker := range speakers {
		files, err := s.ListTranscripts(speaker)
		if err != nil {
			continue
		}
		for _, f := range files {
			if strings.HasSuffix(f, suffix) {
				return filepath.Join(s.baseDir, speaker, f), true
			}
		}
	}
	return "", false
}

// Exists reports whether a record file is present at path.
func (s *TranscriptStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadPath reads and decodes a record from an absolute record path.
func (s *TranscriptStore) LoadPath(path string) (*model.TranscriptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	record := &model.TranscriptRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", path, err)
	}
	return record, nil
}

// Load reads a record by channel directory and file name, the way the
// listing endpoints address them.
func (s *TranscriptStore) Load(speaker string, filename string) (*model.TranscriptRecord, error) {
	return s.LoadPath(filepath.Join(s.baseDir, speaker, filename))
}

// Save writes the record as indented JSON at the path derived from its
// channel, title and video ID, creating the channel directory as
// needed. It returns the path it wrote. Failure records (no transcript,
// error set) are saved the same way as successes so a repeat fetch of a
// dead video also short-circuits on the cache.
func (s *TranscriptStore) Save(record *model.TranscriptRecord) (string, error) {
	path := s.Path(record.ChannelName, record.VideoTitle, record.VideoID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return path, nil
}
