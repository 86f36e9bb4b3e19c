// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the gateway service.
//
// # Authentication Flow
//
// The auth middleware compares a bearer token from the Authorization header
// against the single API key configured via GATEWAY_API_KEY.
//
//	Request
//	   │
//	   ▼
//	APIKeyAuth
//	   │
//	   ├─► key unconfigured ──► pass through (open mode)
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   └─► constant-time compare ──► 401 on mismatch
//
// # Open Mode
//
// When GATEWAY_API_KEY is unset the middleware is a no-op and every request
// passes. This is the default for local single-user deployments, where the
// gateway and the model server share a machine.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth returns middleware enforcing a static bearer token. An empty
// key disables enforcement entirely.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		token := extractBearer(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// extractBearer returns the token portion of "Bearer <token>", or "" when
// the header does not carry a bearer credential.
func extractBearer(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
