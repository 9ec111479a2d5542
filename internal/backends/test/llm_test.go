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

// Package backends_test contains the test suite for the backends package.
// This file tests the OpenAI-compatible local completion client against an
// httptest server speaking the chat completions wire format.
package backends_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/podforge/podforge/internal/backends"
	"github.com/stretchr/testify/assert"
)

// TestLocalCompletionClient verifies the model name, prompt, and tuning
// parameters reach the server and the assistant reply comes back verbatim.
func TestLocalCompletionClient(t *testing.T) {
	var gotPath string
	var gotReq map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [
				{
					"index": 0,
					"finish_reason": "stop",
					"message": {"role": "assistant", "content": "Alice: Hello.\nBob: Hi."}
				}
			]
		}`))
	}))
	defer server.Close()

	client, err := backends.NewLocalCompletionClient(&backends.CompletionModel{
		Backend:          backends.CompletionBackendLocal,
		BaseURL:          server.URL,
		APIKey:           "test",
		Model:            "test-model",
		Temperature:      0.9,
		MaxTokens:        4096,
		TimeoutInSeconds: 30,
	})
	assert.NoError(t, err)

	reply, err := client.Complete(context.Background(), "write a short dialogue")
	assert.NoError(t, err)
	assert.Equal(t, "Alice: Hello.\nBob: Hi.", reply)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "test-model", gotReq["model"])
	assert.InDelta(t, 0.9, gotReq["temperature"].(float64), 0.0001)
	messages := gotReq["messages"].([]interface{})
	assert.Len(t, messages, 1)
	message := messages[0].(map[string]interface{})
	assert.Equal(t, "user", message["role"])
	assert.Equal(t, "write a short dialogue", message["content"])
}

// TestLocalCompletionClientServerError verifies a non-200 response surfaces
// as an error; there is no retry.
func TestLocalCompletionClientServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded"}}`))
	}))
	defer server.Close()

	client, err := backends.NewLocalCompletionClient(&backends.CompletionModel{
		BaseURL:          server.URL,
		APIKey:           "test",
		Model:            "test-model",
		TimeoutInSeconds: 5,
	})
	assert.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

// TestLocalCompletionClientRequiresBaseURL verifies misconfiguration is
// caught at construction time, not on the first request.
func TestLocalCompletionClientRequiresBaseURL(t *testing.T) {
	_, err := backends.NewLocalCompletionClient(&backends.CompletionModel{Model: "test-model"})
	assert.Error(t, err)
}
