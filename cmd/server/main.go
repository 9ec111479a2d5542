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

// Package main is the entry point for the podcast studio server.
//
// The application runs a Gin web server exposing a REST API for the
// whole studio pipeline: listing cached transcripts, fetching new ones
// from YouTube, generating podcast scripts between two hosts, and
// narrating those scripts to audio. The server is instrumented with
// OpenTelemetry for logging, tracing, and metrics.
//
// Functions:
//   - main: Sets up configuration, telemetry, state, routes, and
//     graceful shutdown.
//   - TranscriptRouter: Routes for listing and fetching transcripts.
//   - StudioRouter: Routes for script generation and narration.
//   - StatsRouter: The artifact-count endpoint.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/podforge/podforge/internal/core/commands"
	"github.com/podforge/podforge/internal/core/cor"
	"github.com/podforge/podforge/internal/core/model"
	"github.com/podforge/podforge/internal/telemetry"
)

// Fallback logical names used when a request does not pick a backend.
const (
	defaultCompletionModel = "default"
	defaultTTSBackend      = "local"
)

func main() {
	config := GetConfig()

	telemetry.SetupLogging(config.Application.LogsDir)
	slog.Info("logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config.Application.Name, config.Application.LogsDir)
	if err != nil {
		slog.Error("failed to set up OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("tracing initialized")

	InitState(ctx)
	slog.Info("state initialized")

	r := gin.Default()
	r.Use(otelgin.Middleware(config.Application.Name))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		TranscriptRouter(apiV1)
		StudioRouter(apiV1)
		StatsRouter(apiV1)
	}

	port := config.Application.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
		// Script generation and narration are synchronous and slow;
		// the write timeout has to cover a full local-model completion.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("server ready", "port", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("telemetry shutdown failed", "error", err)
	}
	log.Println("server exiting")
}

// TranscriptRouter sets up the routes for browsing the transcript
// store and fetching new transcripts from YouTube.
//
// Endpoints:
//   - GET /speakers: List channel directories in the transcript store.
//   - GET /speakers/:name/transcripts: List record files for a channel.
//   - GET /channels/videos?channel=<c>&count=<n>: Latest video IDs.
//   - GET /transcripts?video_id=<id>: Cached transcript fetch.
//   - GET /transcripts/from_url?video_url=<url>: Fetch by pasted URL.
func TranscriptRouter(r *gin.RouterGroup) {
	r.GET("/speakers", func(c *gin.Context) {
		speakers, err := state.transcriptStore.ListSpeakers()
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to list speakers", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list speakers"})
			return
		}
		c.JSON(http.StatusOK, speakers)
	})

	r.GET("/speakers/:name/transcripts", func(c *gin.Context) {
		name := c.Param("name")
		files, err := state.transcriptStore.ListTranscripts(name)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to list transcripts", "speaker", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transcripts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{name: files})
	})

	r.GET("/channels/videos", func(c *gin.Context) {
		channel := c.Query("channel")
		if channel == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
			return
		}
		count, err := strconv.Atoi(c.DefaultQuery("count", "3"))
		if err != nil || count <= 0 {
			count = 3
		}
		ids, err := state.fetcher.ListChannelVideos(c.Request.Context(), channel, count)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to list channel videos", "channel", channel, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channel videos"})
			return
		}
		c.JSON(http.StatusOK, ids)
	})

	r.GET("/transcripts", func(c *gin.Context) {
		videoID := c.Query("video_id")
		if videoID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "video_id is required"})
			return
		}
		record, err := state.fetcher.FetchTranscript(c.Request.Context(), videoID)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "transcript fetch failed", "video_id", videoID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transcript fetch failed"})
			return
		}
		c.JSON(http.StatusOK, record)
	})

	r.GET("/transcripts/from_url", func(c *gin.Context) {
		videoURL := c.Query("video_url")
		if videoURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "video_url is required"})
			return
		}
		record, err := state.fetcher.FetchTranscriptFromURL(c.Request.Context(), videoURL)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "transcript fetch failed", "video_url", videoURL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transcript fetch failed"})
			return
		}
		c.JSON(http.StatusOK, record)
	})
}

// StudioRouter sets up the generation endpoints.
//
// Endpoints:
//   - POST /scripts: Generate a podcast script between two hosts.
//   - POST /narrations: Narrate a generated script to audio.
func StudioRouter(r *gin.RouterGroup) {
	r.POST("/scripts", func(c *gin.Context) {
		var req model.ScriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Char1 == "" || req.Char2 == "" || req.Topic == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "char1, char2, and topic are required"})
			return
		}
		if req.LengthMinutes <= 0 {
			req.LengthMinutes = state.config.Generation.DefaultLengthMinutes
		}
		modelName := req.Model
		if modelName == "" {
			modelName = defaultCompletionModel
		}
		wf, ok := state.scriptWorkflows[modelName]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown completion model"})
			return
		}

		chainCtx := cor.NewBaseContext()
		defer chainCtx.Close()
		chainCtx.SetContext(c.Request.Context())
		chainCtx.Add(cor.CtxIn, &req)
		wf.Execute(chainCtx)

		if chainCtx.HasErrors() {
			for name, err := range chainCtx.GetErrors() {
				slog.ErrorContext(c.Request.Context(), "script generation error", "command", name, "error", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "script generation failed"})
			return
		}

		artifact := chainCtx.Get(cor.CtxIn).(*model.ScriptArtifact)
		savePath, _ := chainCtx.Get(commands.ParamScriptPath).(string)
		c.JSON(http.StatusOK, gin.H{
			"script":    artifact.Script,
			"prompt":    artifact.Prompt,
			"save_path": savePath,
		})
	})

	r.POST("/narrations", func(c *gin.Context) {
		var req model.NarrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Script == "" || req.Char1 == "" || req.Char2 == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "script, char1, and char2 are required"})
			return
		}
		if req.Topic == "" {
			req.Topic = "Unknown_Topic"
		}
		backendName := req.Backend
		if backendName == "" {
			backendName = defaultTTSBackend
		}
		wf, ok := state.narrationWorkflows[backendName]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tts backend"})
			return
		}

		chainCtx := cor.NewBaseContext()
		defer chainCtx.Close()
		chainCtx.SetContext(c.Request.Context())
		chainCtx.Add(cor.CtxIn, &req)
		wf.Execute(chainCtx)

		if chainCtx.HasErrors() {
			for name, err := range chainCtx.GetErrors() {
				slog.ErrorContext(c.Request.Context(), "narration error", "command", name, "error", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "narration failed"})
			return
		}

		audioPath, _ := chainCtx.Get(commands.ParamAudioPath).(string)
		c.JSON(http.StatusOK, gin.H{"audio_path": audioPath})
	})
}

// StatsRouter sets up the artifact-count endpoint used by dashboards.
func StatsRouter(r *gin.RouterGroup) {
	r.GET("/stats", func(c *gin.Context) {
		speakers, err := state.transcriptStore.ListSpeakers()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stores"})
			return
		}
		transcripts := 0
		for _, s := range speakers {
			files, err := state.transcriptStore.ListTranscripts(s)
			if err != nil {
				continue
			}
			transcripts += len(files)
		}

		topics, err := state.scriptStore.ListTopics()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read stores"})
			return
		}
		scripts := 0
		for _, t := range topics {
			files, err := state.scriptStore.ListScripts(t)
			if err != nil {
				continue
			}
			scripts += len(files)
		}

		c.JSON(http.StatusOK, gin.H{
			"speakers":    len(speakers),
			"transcripts": transcripts,
			"topics":      len(topics),
			"scripts":     scripts,
			"narrations":  countAudioFiles(state.config.Storage.AudioDir),
		})
	})
}

// countAudioFiles walks the audio tree counting narrated files. A
// missing tree counts as zero.
func countAudioFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			count++
		}
		return nil
	})
	return count
}
