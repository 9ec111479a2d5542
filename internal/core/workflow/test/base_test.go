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

// Package workflow_test contains integration tests for the core application
// workflows. This file, `base_test.go`, provides the foundational setup and
// teardown logic for the whole package via TestMain: configuration, logging,
// and telemetry are initialized once and shared by every test. The workflows
// themselves run against stub model clients and synthesizers, so no network
// access is required.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/podforge/podforge/internal/backends"
	"github.com/podforge/podforge/internal/telemetry"
	test "github.com/podforge/podforge/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

// Shared resources for the test suite, initialized once in TestMain.
var (
	ctx    context.Context  // The root context for all tests in the suite.
	config *backends.Config // The application configuration loaded from test files.
)

const tName = "github.com/podforge/podforge/tests/workflow"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

// TestMain initializes the shared configuration, logging, and telemetry
// before running the suite, and flushes telemetry afterwards.
func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	config = test.GetConfig()

	// Keep test telemetry files out of the working tree.
	logsDir, err := os.MkdirTemp("", "podforge-test-logs-")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(logsDir) }()

	telemetry.SetupLogging(logsDir)

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, config.Application.Name, logsDir)
	if err != nil {
		panic(err)
	}

	logger.Info("completed test setup")

	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}

	os.Exit(exitCode)
}
