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

package backends

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// LocalCompletionClient talks to a locally hosted, OpenAI-compatible
// completion server (Ollama, llama.cpp, vLLM and friends all expose
// this surface). The base URL points at the local server instead of
// the OpenAI cloud; the API key is whatever placeholder the server
// expects, often just a dummy string.
type LocalCompletionClient struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
}

// NewLocalCompletionClient builds a client from a completion model
// config entry. Script writing against a local model is slow, so the
// configured timeout tends to be generous (minutes, not seconds).
func NewLocalCompletionClient(cfg *CompletionModel) (*LocalCompletionClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("local completion backend requires a base_url")
	}
	// The SDK retries transient failures by default; disable so failed
	// generations surface on the first attempt.
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return &LocalCompletionClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: float64(cfg.Temperature),
		maxTokens:   int64(cfg.MaxTokens),
		timeout:     time.Duration(cfg.TimeoutInSeconds) * time.Second,
	}, nil
}

// Complete sends the prompt as a single user message and returns the
// first choice's text. The request is bounded by the configured
// timeout and is never retried.
func (c *LocalCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("local completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("local completion: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
