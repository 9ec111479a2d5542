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

// Package audio_test contains unit tests for the PCM clip primitives: the
// WAV codec, concatenation with line gaps, and playback speed adjustment.
package audio_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/podforge/podforge/internal/core/audio"
	"github.com/stretchr/testify/assert"
)

// TestClipDuration checks the sample-count to wall-clock conversion.
func TestClipDuration(t *testing.T) {
	clip := audio.Silence(400*time.Millisecond, 24000)
	assert.Equal(t, 9600, len(clip.Samples))
	assert.Equal(t, 400*time.Millisecond, clip.Duration())

	empty := &audio.Clip{SampleRate: 24000}
	assert.Equal(t, time.Duration(0), empty.Duration())
}

// TestPCMRoundTrip verifies little-endian byte order survives the conversion
// in both directions, including negative samples.
func TestPCMRoundTrip(t *testing.T) {
	clip := &audio.Clip{Samples: []int16{0, 1, -1, 32767, -32768}, SampleRate: 22050}
	back := audio.FromPCM16LE(clip.PCM16LE(), 22050)
	assert.Equal(t, clip.Samples, back.Samples)

	// A trailing odd byte is dropped rather than misread.
	odd := audio.FromPCM16LE([]byte{0x01, 0x02, 0x03}, 22050)
	assert.Equal(t, 1, len(odd.Samples))
}

// TestConcatInsertsGaps verifies the stitched length: the silence gap sits
// between consecutive clips only, never after the last one.
func TestConcatInsertsGaps(t *testing.T) {
	rate := 24000
	a := audio.Silence(100*time.Millisecond, rate)
	b := audio.Silence(250*time.Millisecond, rate)
	gap := 400 * time.Millisecond

	out, err := audio.Concat([]*audio.Clip{a, b}, gap)
	assert.NoError(t, err)
	assert.Equal(t, rate, out.SampleRate)
	assert.Equal(t, 100*time.Millisecond+gap+250*time.Millisecond, out.Duration())

	single, err := audio.Concat([]*audio.Clip{a}, gap)
	assert.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, single.Duration())
}

// TestConcatErrors covers the empty input and mismatched-rate failures.
func TestConcatErrors(t *testing.T) {
	_, err := audio.Concat(nil, 400*time.Millisecond)
	assert.ErrorIs(t, err, audio.ErrEmptyClip)

	a := audio.Silence(10*time.Millisecond, 24000)
	b := audio.Silence(10*time.Millisecond, 22050)
	_, err = audio.Concat([]*audio.Clip{a, b}, 0)
	assert.Error(t, err)
}

// TestSpeedupShortensClip checks that a 1.2x speed factor shortens the clip
// by roughly that factor at the same nominal sample rate.
func TestSpeedupShortensClip(t *testing.T) {
	clip := audio.Silence(1200*time.Millisecond, 24000)

	out, err := audio.Speedup(clip, 1.2)
	assert.NoError(t, err)
	assert.Equal(t, clip.SampleRate, out.SampleRate)
	assert.InDelta(t, float64(time.Second), float64(out.Duration()), float64(50*time.Millisecond))
}

// TestSpeedupIdentity verifies speed 0 and speed 1 leave the clip untouched.
func TestSpeedupIdentity(t *testing.T) {
	clip := audio.Silence(100*time.Millisecond, 24000)

	for _, speed := range []float64{0, 1.0} {
		out, err := audio.Speedup(clip, speed)
		assert.NoError(t, err)
		assert.Equal(t, clip, out)
	}
}

// TestWAVRoundTrip encodes a clip and decodes it back, checking both the
// samples and the sample rate carried in the header.
func TestWAVRoundTrip(t *testing.T) {
	clip := &audio.Clip{Samples: []int16{0, 100, -100, 32767, -32768}, SampleRate: 22050}

	var buf bytes.Buffer
	assert.NoError(t, audio.EncodeWAV(&buf, clip))

	back, err := audio.DecodeWAV(buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, clip.SampleRate, back.SampleRate)
	assert.Equal(t, clip.Samples, back.Samples)
}

// TestDecodeWAVRejectsGarbage verifies non-RIFF input is refused.
func TestDecodeWAVRejectsGarbage(t *testing.T) {
	_, err := audio.DecodeWAV([]byte("definitely not a wav file"))
	assert.ErrorIs(t, err, audio.ErrNotWave)
}
