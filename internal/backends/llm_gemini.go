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
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiCompletionClient adapts the quota-aware Gemini wrapper to the
// CompletionClient interface so the script workflow can swap between
// the local server and the Gemini API purely through configuration.
type GeminiCompletionClient struct {
	model   *QuotaAwareGenerativeAIModel
	timeout time.Duration
}

// NewGeminiCompletionClient builds a client from a completion model
// config entry and an already initialized genai model handle.
func NewGeminiCompletionClient(cfg *CompletionModel, handle *genai.Models) (*GeminiCompletionClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("gemini completion backend requires a model name")
	}
	genConfig := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		genConfig.Temperature = genai.Ptr(float32(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(cfg.MaxTokens)
	}
	return &GeminiCompletionClient{
		model:   NewQuotaAwareModel(genConfig, cfg.Model, handle, cfg.RateLimit),
		timeout: time.Duration(cfg.TimeoutInSeconds) * time.Second,
	}, nil
}

// Complete generates a single completion for the prompt and joins the
// text parts of the first candidate.
func (c *GeminiCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini completion: response contained no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
