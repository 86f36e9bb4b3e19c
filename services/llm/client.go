// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm wraps the external model servers the gateway proxies to.
package llm

import (
	"context"
	"fmt"
)

// ModelInfo describes one model known to the upstream server.
type ModelInfo struct {
	Name string `json:"name"`
}

// ModelClient is the standard interface for any model-server backend.
//
// Generate issues a single non-streaming request and blocks until the full
// reply arrives; there is deliberately no timeout, retry, or partial
// delivery. ListModels is best-effort: backends swallow upstream failures
// and report a nil slice so the health probe can degrade gracefully. A nil
// slice means the server could not be listed at all; an empty non-nil slice
// means it answered with no models installed.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// GatewayError reports a non-success status from the upstream model server.
// The upstream body is carried for diagnostics.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("model server failed with status %d: %s", e.StatusCode, e.Body)
}

// NetworkError reports that the upstream model server could not be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("model server unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
