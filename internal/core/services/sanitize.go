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
	"strings"
	"unicode"
)

// SanitizeFilename maps an arbitrary string (channel name, video
// title, topic) to a form safe for use as a file or directory name.
// Every rune that is not a letter, digit, space, hyphen or underscore
// becomes an underscore, and surrounding whitespace is trimmed. The
// function is idempotent: sanitizing an already sanitized name returns
// it unchanged, which keeps store paths stable across repeat fetches.
func SanitizeFilename(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	return strings.TrimSpace(mapped)
}
