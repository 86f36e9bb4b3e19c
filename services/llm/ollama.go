// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("deeppredict.llm.ollama")

// OllamaClient talks to a locally running Ollama server.
//
// The http.Client carries no timeout: a hung upstream call blocks its request
// until the connection drops. Only a non-2xx status or a transport failure
// terminates a call early.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaTagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// NewOllamaClient builds a client from the environment.
// OLLAMA_HOST defaults to the standard local install; MODEL_NAME to llama3.
func NewOllamaClient() *OllamaClient {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:11434"
		slog.Warn("OLLAMA_HOST not set, using default", "base_url", baseURL)
	}
	model := os.Getenv("MODEL_NAME")
	if model == "" {
		model = "llama3"
		slog.Warn("MODEL_NAME not set, using default", "model", model)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing Ollama client", "base_url", baseURL, "model", model)
	return &OllamaClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		model:      model,
	}
}

// Generate implements the ModelClient interface. It issues one non-streaming
// /api/generate call and normalizes whatever envelope comes back.
func (o *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "OllamaClient.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", o.model))

	payload := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate",
		bytes.NewBuffer(reqBody))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Ollama API call failed", "error", err)
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &NetworkError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Ollama returned an error", "status_code", resp.StatusCode,
			"response", string(respBody))
		gwErr := &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
		span.RecordError(gwErr)
		span.SetStatus(codes.Error, gwErr.Error())
		return "", gwErr
	}

	slog.Debug("Received response from Ollama")
	return NormalizeReply(respBody), nil
}

// ListModels probes /api/tags and falls back to /api/models when the primary
// path fails in any way (connect error, non-2xx, malformed body). Remaining
// failures are swallowed: the health probe treats "no models known" as a
// degraded state, not an error. A nil slice means both endpoints failed; an
// empty non-nil slice means the server answered with no models installed.
func (o *OllamaClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if models, ok := o.fetchModels(ctx, "/api/tags"); ok {
		return models, nil
	}
	if models, ok := o.fetchModels(ctx, "/api/models"); ok {
		return models, nil
	}
	slog.Warn("Model listing unavailable on both endpoints", "base_url", o.baseURL)
	return nil, nil
}

func (o *OllamaClient) fetchModels(ctx context.Context, path string) ([]ModelInfo, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+path, nil)
	if err != nil {
		return nil, false
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil || tags.Models == nil {
		return nil, false
	}
	return tags.Models, true
}
