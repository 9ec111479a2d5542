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
	"regexp"
	"strings"
)

var (
	// cueTimingPattern matches timing lines such as
	// "00:00:01.234 --> 00:00:03.456 align:start position:0%".
	cueTimingPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}\.\d{3}`)

	// cueMarkupPattern matches the inline tags auto-subs are littered
	// with (<c>, <00:00:01.500>, <i> and similar).
	cueMarkupPattern = regexp.MustCompile(`<[^>]*>`)
)

// CleanVTT reduces a WEBVTT subtitle file to plain transcript text.
// Header and metadata lines, timing cues, bare cue numbers and inline
// markup are dropped, and consecutive duplicate lines are collapsed:
// auto-generated captions repeat each line across overlapping cues, so
// without the dedupe the transcript reads every sentence twice. The
// surviving lines are joined with single spaces.
func CleanVTT(raw string) string {
	var kept []string
	last := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "WEBVTT"),
			strings.HasPrefix(line, "Kind:"),
			strings.HasPrefix(line, "Language:"),
			strings.HasPrefix(line, "NOTE"),
			strings.HasPrefix(line, "STYLE"),
			cueTimingPattern.MatchString(line):
			continue
		}
		line = strings.TrimSpace(cueMarkupPattern.ReplaceAllString(line, ""))
		if line == "" || isCueNumber(line) || line == last {
			continue
		}
		kept = append(kept, line)
		last = line
	}
	return strings.Join(kept, " ")
}

// isCueNumber reports whether the line is a bare cue sequence number.
func isCueNumber(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(line) > 0
}
