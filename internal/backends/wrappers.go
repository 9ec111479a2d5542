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

// Package backends holds the clients for the external model services
// the application talks to: the completion backends that write podcast
// scripts and the speech backends that voice them. This file implements
// a decorator around the Gemini model handle that adds rate limiting,
// so a burst of script requests cannot blow through the API quota.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: wraps a `genai.Models` handle plus a
//     generation config and gates every call behind a rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: constructor for the wrapper.
//   - GenerateContent: the gated call. A failed generation is returned
//     to the caller unchanged; there is deliberately no retry here.
package backends

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel is a decorator around the Gemini model
// handle. It carries the generation config and model name so callers
// only supply content, and it blocks on the rate limiter before every
// request.
type QuotaAwareGenerativeAIModel struct {
	GenerateConfig *genai.GenerateContentConfig
	ModelName      string
	ModelHandle    *genai.Models
	RateLimit      *rate.Limiter
}

// NewQuotaAwareModel creates a new quota-aware wrapper that allows at
// most requestsPerSecond calls per second, with an equal burst size.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerateConfig: config,
		ModelName:      name,
		ModelHandle:    handle,
		RateLimit:      rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent waits for a rate limiter token and then performs a
// single generation call. Errors from the model are not retried: the
// workflows that call this are synchronous and surface the failure to
// the client instead of masking it with sleeps.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerateConfig)
}
