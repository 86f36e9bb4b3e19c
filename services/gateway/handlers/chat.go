// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers provides the HTTP request handlers for the gateway service.
//
// Every handler converts failures into a JSON error envelope at its own
// boundary; a per-request failure never terminates the process. Validation
// failures are rejected before the model server is contacted.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
	"github.com/deeppredict/deeppredict/services/gateway/observability"
	"github.com/deeppredict/deeppredict/services/gateway/prompt"
	"github.com/deeppredict/deeppredict/services/llm"
)

var chatTracer = otel.Tracer("deeppredict.gateway.handlers")

// HandleChat serves POST /chat.
//
// Request body: {"message": string}. A missing, empty, or whitespace-only
// message is a client fault (400) and never reaches the model server. On
// success the full prompt is built, sent upstream in a single blocking call,
// and the normalized reply is returned as {"reply": string}. Upstream
// failures surface as a generic server_error with diagnostic details.
// backend labels the upstream latency metric with the configured model
// backend ("ollama" or "openai").
func HandleChat(client llm.ModelClient, metrics *observability.GatewayMetrics, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := chatTracer.Start(c.Request.Context(), "HandleChat")
		defer span.End()
		defer metrics.TrackInflight()()

		requestID := uuid.NewString()

		var req datatypes.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Error("Failed to parse the chat request", "request_id", requestID, "error", err)
			metrics.RecordRequest(observability.EndpointChat, observability.StatusClientErr)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing message string"})
			return
		}
		if !req.Validate() {
			metrics.RecordRequest(observability.EndpointChat, observability.StatusClientErr)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing message string"})
			return
		}

		fullPrompt := prompt.BuildChatPrompt(req.Message)

		start := time.Now()
		reply, err := client.Generate(ctx, fullPrompt)
		metrics.ObserveUpstream(backend, time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Model server call failed", "request_id", requestID, "error", err)
			metrics.RecordRequest(observability.EndpointChat, observability.StatusServerErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "server_error",
				"details": err.Error(),
			})
			return
		}

		metrics.RecordRequest(observability.EndpointChat, observability.StatusSuccess)
		c.JSON(http.StatusOK, datatypes.ChatReply{Reply: reply})
	}
}
