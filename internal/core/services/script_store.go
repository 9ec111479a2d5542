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

// ScriptStore reads and writes generated script artifacts grouped by
// topic:
//
//	<scripts_dir>/<topic>/<char1>_<char2>_<length>min_<timestamp>.json
//
// The timestamp in the file name keeps repeat generations for the same
// pairing side by side instead of overwriting each other.
type ScriptStore struct {
	baseDir string
}

// NewScriptStore creates a store rooted at baseDir.
func NewScriptStore(baseDir string) *ScriptStore {
	return &ScriptStore{baseDir: baseDir}
}

// BaseDir returns the root of the script tree.
func (s *ScriptStore) BaseDir() string { return s.baseDir }

// Path returns the artifact location derived from its fields.
func (s *ScriptStore) Path(artifact *model.ScriptArtifact) string {
	name := fmt.Sprintf("%s_%s_%dmin_%s.json",
		SanitizeFilename(artifact.Char1),
		SanitizeFilename(artifact.Char2),
		artifact.LengthMinutes,
		artifact.Timestamp,
	)
	return filepath.Join(s.baseDir, SanitizeFilename(artifact.Topic), name)
}

// Save writes the artifact as indented JSON, creating the topic
// directory as needed, and returns the path it wrote.
func (s *ScriptStore) Save(artifact *model.ScriptArtifact) (string, error) {
	path := s.Path(artifact)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("save script: %w", err)
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode script: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save script: %w", err)
	}
	return path, nil
}

// ListTopics returns the topic directory names in sorted order.
func (s *ScriptStore) ListTopics() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	topics := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			topics = append(topics, e.Name())
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// ListScripts returns the artifact file names for one topic in sorted
// order.
func (s *ScriptStore) ListScripts(topic string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, SanitizeFilename(topic)))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list scripts for %q: %w", topic, err)
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

// Load reads an artifact by topic and file name.
func (s *ScriptStore) Load(topic string, filename string) (*model.ScriptArtifact, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, SanitizeFilename(topic), filename))
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	artifact := &model.ScriptArtifact{}
	if err := json.Unmarshal(data, artifact); err != nil {
		return nil, fmt.Errorf("decode script %s: %w", filename, err)
	}
	return artifact, nil
}
