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

// This file implements a minimal RIFF/WAVE codec for the one shape of audio
// the studio produces and consumes: PCM, 16-bit. Stereo input is downmixed to
// mono on decode so every clip entering the stitcher has the same geometry.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	waveFormatPCM    = 1
	wavHeaderSize    = 44
	bitsPerSample    = 16
	bytesPerSample   = 2
)

// ErrNotWave is returned when decoded bytes do not carry a RIFF/WAVE header.
var ErrNotWave = errors.New("audio: not a RIFF/WAVE stream")

// EncodeWAV writes the clip as a canonical 44-byte-header PCM WAV stream.
//
// Inputs:
//   - w: The destination writer.
//   - clip: The mono clip to encode.
//
// Outputs:
//   - error: An error if the clip is empty or the write fails.
func EncodeWAV(w io.Writer, clip *Clip) error {
	if clip == nil || len(clip.Samples) == 0 {
		return ErrEmptyClip
	}
	dataLen := len(clip.Samples) * bytesPerSample
	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], waveFormatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(clip.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(clip.SampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], bytesPerSample)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(clip.PCM16LE())
	return err
}

// DecodeWAV parses a PCM WAV stream into a mono clip. Stereo content is
// downmixed by averaging the two channels. Compressed or non-16-bit streams
// are rejected.
//
// Inputs:
//   - b: The complete WAV byte stream.
//
// Outputs:
//   - *Clip: The decoded mono clip.
//   - error: An error if the stream is malformed or uses an unsupported format.
func DecodeWAV(b []byte) (*Clip, error) {
	if len(b) < wavHeaderSize || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, ErrNotWave
	}

	var sampleRate int
	var channels int
	var data []byte

	// Walk the chunk list. Producers disagree about what sits between "fmt "
	// and "data" (LIST, fact, cue chunks), so scan rather than assume offsets.
	off := 12
	for off+8 <= len(b) {
		chunkID := string(b[off : off+4])
		chunkLen := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := b[off+8:]
		if chunkLen > len(body) {
			chunkLen = len(body)
		}
		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, fmt.Errorf("audio: short fmt chunk (%d bytes)", chunkLen)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			if format != waveFormatPCM {
				return nil, fmt.Errorf("audio: unsupported wave format %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			if bits := binary.LittleEndian.Uint16(body[14:16]); bits != bitsPerSample {
				return nil, fmt.Errorf("audio: unsupported bit depth %d", bits)
			}
		case "data":
			data = body[:chunkLen]
		}
		// Chunks are word-aligned.
		off += 8 + chunkLen + (chunkLen & 1)
	}

	if sampleRate == 0 || channels == 0 {
		return nil, errors.New("audio: missing fmt chunk")
	}
	if data == nil {
		return nil, errors.New("audio: missing data chunk")
	}

	clip := FromPCM16LE(data, sampleRate)
	if channels == 2 {
		mono := make([]int16, len(clip.Samples)/2)
		for i := range mono {
			mono[i] = int16((int32(clip.Samples[2*i]) + int32(clip.Samples[2*i+1])) / 2)
		}
		clip.Samples = mono
	} else if channels != 1 {
		return nil, fmt.Errorf("audio: unsupported channel count %d", channels)
	}
	return clip, nil
}
