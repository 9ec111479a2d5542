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

// This file implements the clip stitching primitives used by the narration
// workflow: ordered concatenation with a fixed silence gap, and the optional
// playback-speed adjustment. The speed change is the frame-rate trick: the
// samples are reinterpreted at rate*speed and then resampled back to the
// nominal rate, so it raises pitch along with speed. It is deliberately not a
// pitch-preserving time stretch.
package audio

import (
	"fmt"
	"time"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Concat joins clips in order, inserting gap-length silence between each pair
// of consecutive clips. The final clip gets no trailing gap. All clips must
// share one sample rate.
//
// Inputs:
//   - clips: The per-line clips in source line order.
//   - gap: The silence inserted between consecutive clips.
//
// Outputs:
//   - *Clip: The combined clip.
//   - error: An error if no clips were supplied or the rates disagree.
func Concat(clips []*Clip, gap time.Duration) (*Clip, error) {
	if len(clips) == 0 {
		return nil, ErrEmptyClip
	}
	rate := clips[0].SampleRate
	padding := Silence(gap, rate)

	total := 0
	for _, c := range clips {
		if c.SampleRate != rate {
			return nil, fmt.Errorf("audio: sample rate mismatch: %d vs %d", c.SampleRate, rate)
		}
		total += len(c.Samples)
	}
	total += len(padding.Samples) * (len(clips) - 1)

	out := make([]int16, 0, total)
	for i, c := range clips {
		if i > 0 {
			out = append(out, padding.Samples...)
		}
		out = append(out, c.Samples...)
	}
	return &Clip{Samples: out, SampleRate: rate}, nil
}

// Speedup applies a playback-speed multiplier to the clip. The samples are
// reinterpreted at SampleRate*speed and resampled back down to the nominal
// rate, shortening the clip by the speed factor. Speed values of 0 or 1
// return the clip unchanged.
//
// Inputs:
//   - clip: The clip to adjust.
//   - speed: The speed multiplier (e.g. 1.2 for 20% faster).
//
// Outputs:
//   - *Clip: The adjusted clip at the original nominal sample rate.
//   - error: An error if the resampler cannot be constructed or fails.
func Speedup(clip *Clip, speed float64) (*Clip, error) {
	if speed <= 0 || speed == 1.0 {
		return clip, nil
	}
	if len(clip.Samples) == 0 {
		return nil, ErrEmptyClip
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(clip.SampleRate) * speed,
		OutputRate: float64(clip.SampleRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("audio: create resampler: %w", err)
	}

	input := make([]float64, len(clip.Samples))
	for i, s := range clip.Samples {
		input[i] = float64(s) / 32768.0
	}
	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("audio: resample: %w", err)
	}

	samples := make([]int16, len(output))
	for i, s := range output {
		switch {
		case s > 1.0:
			samples[i] = 32767
		case s < -1.0:
			samples[i] = -32768
		default:
			samples[i] = int16(s * 32767.0)
		}
	}
	return &Clip{Samples: samples, SampleRate: clip.SampleRate}, nil
}
