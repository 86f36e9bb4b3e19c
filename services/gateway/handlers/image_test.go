// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeppredict/deeppredict/services/llm"
)

// performMultipartRequest posts a multipart form with an optional image file
// and optional message field.
func performMultipartRequest(router *gin.Engine, imageBytes []byte, message string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if imageBytes != nil {
		part, _ := writer.CreateFormFile("image", "snapshot.png")
		_, _ = part.Write(imageBytes)
	}
	if message != "" {
		_ = writer.WriteField("message", message)
	}
	_ = writer.Close()

	req, _ := http.NewRequest("POST", "/image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// HandleImage Tests
// =============================================================================

func TestHandleImageSuccess(t *testing.T) {
	mock := &MockModelClient{GenerateReply: "the chart shows an uptrend"}
	router := createTestRouter("POST", "/image", HandleImage(mock, nil, "ollama"))

	imageBytes := []byte{0x89, 0x50, 0x4e, 0x47}
	w := performMultipartRequest(router, imageBytes, "what pattern is this?")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "the chart shows an uptrend", response["reply"])

	// The prompt embeds the exact base64 of the uploaded bytes plus the
	// optional question.
	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], base64.StdEncoding.EncodeToString(imageBytes))
	assert.Contains(t, mock.Prompts[0], "what pattern is this?")
}

func TestHandleImageMissingFileNeverCallsGateway(t *testing.T) {
	mock := &MockModelClient{GenerateReply: "should never be seen"}
	router := createTestRouter("POST", "/image", HandleImage(mock, nil, "ollama"))

	w := performMultipartRequest(router, nil, "text without an image")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.Prompts)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "No image uploaded", response["error"])
}

func TestHandleImageMessageIsOptional(t *testing.T) {
	mock := &MockModelClient{GenerateReply: "analyzed"}
	router := createTestRouter("POST", "/image", HandleImage(mock, nil, "ollama"))

	w := performMultipartRequest(router, []byte("img"), "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mock.Prompts, 1)
	assert.NotContains(t, mock.Prompts[0], "User question/context")
}

func TestHandleImageEmptyReplyFallback(t *testing.T) {
	mock := &MockModelClient{GenerateReply: ""}
	router := createTestRouter("POST", "/image", HandleImage(mock, nil, "ollama"))

	w := performMultipartRequest(router, []byte("img"), "")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "No interpretation received.", response["reply"])
}

func TestHandleImageGatewayFailure(t *testing.T) {
	mock := &MockModelClient{
		GenerateError: &llm.GatewayError{StatusCode: 500, Body: "upstream exploded"},
	}
	router := createTestRouter("POST", "/image", HandleImage(mock, nil, "ollama"))

	w := performMultipartRequest(router, []byte("img"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "image_error", response["error"])
	assert.Contains(t, response["details"], "upstream exploded")
}
