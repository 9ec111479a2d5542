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

// This file defines the TranscriptFetcher, which shells out to yt-dlp
// to list channel videos and pull subtitle tracks, and turns the
// subtitles into cached transcript records. Process execution hides
// behind the Runner interface so tests can stub yt-dlp instead of
// hitting the network.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/podforge/podforge/internal/core/model"
)

// Runner executes an external command and returns its stdout. The
// production implementation is ExecRunner; tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through os/exec. Stderr is folded into the
// returned error so yt-dlp's own diagnostics survive the round trip.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// videoIDPattern extracts an 11-character video ID from the URL forms
// users paste: watch?v=..., youtu.be/..., embedded share links.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([\w-]{11})`)

// playlistEntry is the slice of yt-dlp's flat-playlist JSON we care
// about.
type playlistEntry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// videoMetadata is the slice of yt-dlp's --dump-json output we care
// about.
type videoMetadata struct {
	Channel string `json:"channel"`
	Title   string `json:"title"`
}

// subtitleAttempt is one pass of the subtitle search: manual uploads
// are preferred over auto-generated captions, English over anything
// else.
type subtitleAttempt struct {
	flag      string
	langs     string
	generated bool
}

var subtitleAttempts = []subtitleAttempt{
	{flag: "--write-subs", langs: "en.*", generated: false},
	{flag: "--write-auto-subs", langs: "en.*", generated: true},
	{flag: "--write-subs", langs: "all", generated: false},
	{flag: "--write-auto-subs", langs: "all", generated: true},
}

// TranscriptFetcher retrieves transcripts for YouTube videos and
// persists them through a TranscriptStore. Every fetch checks the
// store first: a video that already has a record, including a failure
// record, never triggers another yt-dlp invocation.
type TranscriptFetcher struct {
	runner    Runner
	ytDlpPath string
	store     *TranscriptStore
}

// NewTranscriptFetcher creates a fetcher that invokes the yt-dlp
// binary at ytDlpPath through the given runner.
func NewTranscriptFetcher(ytDlpPath string, store *TranscriptStore, runner Runner) *TranscriptFetcher {
	return &TranscriptFetcher{
		runner:    runner,
		ytDlpPath: ytDlpPath,
		store:     store,
	}
}

// ListChannelVideos returns up to n recent video IDs for a channel.
// The channel argument is either a full URL or a handle like
// "@somechannel"; handles are expanded to the channel's videos tab.
// Shorts and malformed entries are filtered out.
func (f *TranscriptFetcher) ListChannelVideos(ctx context.Context, channel string, n int) ([]string, error) {
	channelURL := channel
	if !strings.HasPrefix(channel, "http") {
		channelURL = fmt.Sprintf("https://www.youtube.com/%s/videos", channel)
	}

	out, err := f.runner.Run(ctx, f.ytDlpPath, "--flat-playlist", "--dump-json", "--quiet", channelURL)
	if err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}

	ids := make([]string, 0, n)
	for _, line := range bytes.Split(out, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var entry playlistEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if len(entry.ID) != 11 || strings.Contains(entry.URL, "/shorts/") {
			continue
		}
		ids = append(ids, entry.ID)
		if len(ids) == n {
			break
		}
	}
	return ids, nil
}

// FetchTranscript returns the transcript record for a video, answering
// from the store when a record already exists. On a cache miss it
// probes the video metadata, downloads the best available subtitle
// track, cleans it to plain text, and persists the result. A video
// with no subtitles in any language still produces a persisted record
// with the error field set, so the failure is cached too. The returned
// error covers infrastructure problems only; "no transcript" is data,
// not an error.
func (f *TranscriptFetcher) FetchTranscript(ctx context.Context, videoID string) (*model.TranscriptRecord, error) {
	if path, ok := f.store.FindByVideoID(videoID); ok {
		slog.InfoContext(ctx, "transcript served from cache", "video_id", videoID, "path", path)
		return f.store.LoadPath(path)
	}

	videoURL := fmt.Sprintf("https://youtu.be/%s", videoID)
	record := &model.TranscriptRecord{
		ChannelName: "unknown_channel",
		VideoTitle:  "unknown_title",
		VideoID:     videoID,
		VideoURL:    videoURL,
	}

	meta, err := f.probeMetadata(ctx, videoURL)
	if err != nil {
		slog.WarnContext(ctx, "video metadata probe failed", "video_id", videoID, "error", err)
	} else {
		record.ChannelName = SanitizeFilename(meta.Channel)
		record.VideoTitle = SanitizeFilename(meta.Title)
	}

	text, language, generated, fetchErr := f.downloadSubtitles(ctx, videoURL)
	if fetchErr != nil {
		msg := fetchErr.Error()
		record.Error = &msg
	} else {
		record.Transcript = &text
		record.Language = &language
		record.IsGenerated = &generated
	}

	if _, err := f.store.Save(record); err != nil {
		return nil, err
	}
	return record, nil
}

// FetchTranscriptFromURL extracts the video ID from a pasted URL and
// delegates to FetchTranscript. A URL with no recognizable ID yields
// an unsaved record carrying the validation error.
func (f *TranscriptFetcher) FetchTranscriptFromURL(ctx context.Context, videoURL string) (*model.TranscriptRecord, error) {
	m := videoIDPattern.FindStringSubmatch(videoURL)
	if m == nil {
		msg := "invalid YouTube video URL"
		return &model.TranscriptRecord{VideoURL: videoURL, Error: &msg}, nil
	}
	return f.FetchTranscript(ctx, m[1])
}

func (f *TranscriptFetcher) probeMetadata(ctx context.Context, videoURL string) (*videoMetadata, error) {
	out, err := f.runner.Run(ctx, f.ytDlpPath, "--dump-json", "--skip-download", "--quiet", videoURL)
	if err != nil {
		return nil, err
	}
	meta := &videoMetadata{}
	if err := json.Unmarshal(out, meta); err != nil {
		return nil, fmt.Errorf("decode video metadata: %w", err)
	}
	return meta, nil
}

// downloadSubtitles walks the attempt ladder until a VTT file shows
// up, then cleans it to plain text. It returns the text, the language
// code taken from the subtitle file name, and whether the track was
// auto-generated.
func (f *TranscriptFetcher) downloadSubtitles(ctx context.Context, videoURL string) (text string, language string, generated bool, err error) {
	tempDir, err := os.MkdirTemp("", "podforge-subs-")
	if err != nil {
		return "", "", false, fmt.Errorf("create subtitle temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	for _, attempt := range subtitleAttempts {
		_, runErr := f.runner.Run(ctx, f.ytDlpPath,
			"--skip-download",
			attempt.flag,
			"--sub-langs", attempt.langs,
			"--sub-format", "vtt",
			"--quiet",
			"-o", filepath.Join(tempDir, "sub"),
			videoURL,
		)
		if runErr != nil {
			slog.DebugContext(ctx, "subtitle attempt failed", "flag", attempt.flag, "langs", attempt.langs, "error", runErr)
			continue
		}
		path, lang, found := pickSubtitleFile(tempDir)
		if !found {
			continue
		}
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return "", "", false, fmt.Errorf("read subtitle file: %w", readErr)
		}
		return CleanVTT(string(raw)), lang, attempt.generated, nil
	}
	return "", "", false, errors.New("no transcript available in any language")
}

// pickSubtitleFile selects a downloaded VTT file, preferring English
// tracks, and reports the language code embedded in the file name
// ("sub.en.vtt" yields "en").
func pickSubtitleFile(dir string) (path string, language string, found bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil || len(matches) == 0 {
		return "", "", false
	}
	sort.Strings(matches)
	best := matches[0]
	for _, m := range matches {
		if strings.HasPrefix(subtitleLanguage(m), "en") {
			best = m
			break
		}
	}
	return best, subtitleLanguage(best), true
}

func subtitleLanguage(path string) string {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}
