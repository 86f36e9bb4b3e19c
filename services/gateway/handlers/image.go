// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
	"github.com/deeppredict/deeppredict/services/gateway/observability"
	"github.com/deeppredict/deeppredict/services/gateway/prompt"
	"github.com/deeppredict/deeppredict/services/llm"
)

// noInterpretationFallback is returned when the model answers with an empty
// normalized reply for an image request.
const noInterpretationFallback = "No interpretation received."

// HandleImage serves POST /image.
//
// Multipart body: required file field "image", optional text field "message".
// A missing image is a client fault (400) and never reaches the model server.
// The image bytes are base64-encoded and embedded inline in the prompt; no
// size threshold is applied before forwarding, so oversized uploads ride
// through to the upstream server and fail there if at all. backend labels
// the upstream latency metric with the configured model backend.
func HandleImage(client llm.ModelClient, metrics *observability.GatewayMetrics, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := chatTracer.Start(c.Request.Context(), "HandleImage")
		defer span.End()
		defer metrics.TrackInflight()()

		requestID := uuid.NewString()

		fileHeader, err := c.FormFile("image")
		if err != nil {
			metrics.RecordRequest(observability.EndpointImage, observability.StatusClientErr)
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to open uploaded image", "request_id", requestID, "error", err)
			metrics.RecordRequest(observability.EndpointImage, observability.StatusServerErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "image_error",
				"details": err.Error(),
			})
			return
		}
		defer file.Close()

		imageBytes, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to read uploaded image", "request_id", requestID, "error", err)
			metrics.RecordRequest(observability.EndpointImage, observability.StatusServerErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "image_error",
				"details": err.Error(),
			})
			return
		}

		userMessage := c.PostForm("message")
		imageBase64 := base64.StdEncoding.EncodeToString(imageBytes)
		fullPrompt := prompt.BuildImagePrompt(userMessage, imageBase64)

		slog.Info("Forwarding image analysis request", "request_id", requestID,
			"image_bytes", len(imageBytes), "has_message", userMessage != "")

		start := time.Now()
		reply, err := client.Generate(ctx, fullPrompt)
		metrics.ObserveUpstream(backend, time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Model server call failed", "request_id", requestID, "error", err)
			metrics.RecordRequest(observability.EndpointImage, observability.StatusServerErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "image_error",
				"details": err.Error(),
			})
			return
		}

		if reply == "" {
			reply = noInterpretationFallback
		}
		metrics.RecordRequest(observability.EndpointImage, observability.StatusSuccess)
		c.JSON(http.StatusOK, datatypes.ChatReply{Reply: reply})
	}
}
