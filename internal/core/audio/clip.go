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

// Package audio provides the in-memory representation of synthesized speech
// clips and the small amount of signal plumbing the narrator needs: WAV
// encode/decode, silence insertion, clip concatenation, and the playback-speed
// adjustment applied during stitching.
//
// All clips are mono, 16-bit signed PCM. That is the native output of both
// synthesis backends, and keeping a single canonical in-memory format keeps
// the stitching path free of per-backend special cases.
package audio

import (
	"errors"
	"time"
)

// ErrEmptyClip is returned by operations that require at least one sample.
var ErrEmptyClip = errors.New("audio: empty clip")

// Clip is a mono, 16-bit PCM audio segment at a known sample rate.
type Clip struct {
	Samples    []int16 // Raw signed 16-bit samples, one channel.
	SampleRate int     // Samples per second.
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Silence creates a clip of the given duration containing only zero samples.
// It is used to insert the fixed gap between consecutive dialogue lines.
func Silence(d time.Duration, sampleRate int) *Clip {
	n := int(d * time.Duration(sampleRate) / time.Second)
	return &Clip{Samples: make([]int16, n), SampleRate: sampleRate}
}

// FromPCM16LE interprets raw little-endian 16-bit PCM bytes as a mono clip.
// A trailing odd byte is dropped.
func FromPCM16LE(b []byte, sampleRate int) *Clip {
	n := len(b) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
	}
	return &Clip{Samples: samples, SampleRate: sampleRate}
}

// PCM16LE returns the clip's samples as raw little-endian 16-bit PCM bytes.
func (c *Clip) PCM16LE() []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		out[2*i] = byte(uint16(s))
		out[2*i+1] = byte(uint16(s) >> 8)
	}
	return out
}
