// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompatClient targets any server speaking the OpenAI chat API
// (llama.cpp server, vLLM, LM Studio, or OpenAI itself). Selected with
// LLM_BACKEND_TYPE=openai.
type OpenAICompatClient struct {
	client *openai.Client
	model  string
}

// NewOpenAICompatClient builds a client from the environment. OPENAI_BASE_URL
// overrides the default endpoint for local OpenAI-compatible servers;
// OPENAI_API_KEY may be any non-empty string for servers that ignore auth.
func NewOpenAICompatClient() (*OpenAICompatClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY environment variable not set")
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSuffix(os.Getenv("OPENAI_BASE_URL"), "/"); baseURL != "" {
		config.BaseURL = baseURL
	}
	slog.Info("Initializing OpenAI-compatible client", "model", model, "base_url", config.BaseURL)
	return &OpenAICompatClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Generate implements the ModelClient interface.
func (o *OpenAICompatClient) Generate(ctx context.Context, prompt string) (string, error) {
	slog.Debug("Generating text via OpenAI-compatible server", "model", o.model)
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI-compatible API call failed", "error", err)
		return "", &NetworkError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model server returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels queries the models API. Failures are swallowed into a nil
// slice, matching the Ollama backend's degrade-gracefully policy.
func (o *OpenAICompatClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := o.client.ListModels(ctx)
	if err != nil {
		slog.Warn("Model listing unavailable", "error", err)
		return nil, nil
	}
	models := make([]ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, ModelInfo{Name: m.ID})
	}
	return models, nil
}
