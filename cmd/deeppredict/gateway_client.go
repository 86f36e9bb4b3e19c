// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
)

// GatewayClient talks to the DeepPredict gateway HTTP API.
//
// It carries no timeout: gateway replies are bounded by the model server,
// and local model generation can legitimately take minutes.
type GatewayClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewGatewayClient creates a client for the gateway at baseURL. apiKey may
// be empty when the gateway runs in open mode.
func NewGatewayClient(baseURL, apiKey string) *GatewayClient {
	return &GatewayClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *GatewayClient) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.httpClient.Do(req)
}

// errorFromBody extracts the gateway's error envelope for non-2xx replies.
func errorFromBody(status int, body []byte) error {
	var envelope struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		if envelope.Details != "" {
			return fmt.Errorf("gateway returned %d: %s (%s)", status, envelope.Error, envelope.Details)
		}
		return fmt.Errorf("gateway returned %d: %s", status, envelope.Error)
	}
	return fmt.Errorf("gateway returned %d: %s", status, string(body))
}

// SendChat posts a chat message and returns the assistant reply text.
func (c *GatewayClient) SendChat(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(datatypes.ChatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("contact gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gateway reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errorFromBody(resp.StatusCode, body)
	}

	var reply datatypes.ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("decode gateway reply: %w", err)
	}
	return reply.Reply, nil
}

// SendImage posts an image (with optional question text) as multipart form
// data and returns the assistant's interpretation.
func (c *GatewayClient) SendImage(ctx context.Context, path string, data []byte, message string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("build image form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write image form: %w", err)
	}
	if message != "" {
		if err := writer.WriteField("message", message); err != nil {
			return "", fmt.Errorf("write message field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish image form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/image", &buf)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("contact gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gateway reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errorFromBody(resp.StatusCode, body)
	}

	var reply datatypes.ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("decode gateway reply: %w", err)
	}
	return reply.Reply, nil
}

// Health fetches the gateway health report.
func (c *GatewayClient) Health(ctx context.Context) (datatypes.HealthResponse, error) {
	var health datatypes.HealthResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return health, fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return health, fmt.Errorf("contact gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return health, errorFromBody(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return health, fmt.Errorf("decode health reply: %w", err)
	}
	return health, nil
}
