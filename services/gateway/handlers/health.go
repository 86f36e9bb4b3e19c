// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
	"github.com/deeppredict/deeppredict/services/llm"
)

// HandleHealth serves GET /health.
//
// A liveness probe, not a correctness probe: the response is always 200.
// When the model server is unreachable on both listing endpoints the probe
// degrades to gatewayReachable=false with an empty model list instead of
// failing the request.
func HandleHealth(client llm.ModelClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		models, err := client.ListModels(c.Request.Context())

		// ListModels is contractually best-effort (nil slice = server could
		// not be listed), but a third-party ModelClient may still error.
		reachable := err == nil && models != nil

		names := make([]string, 0, len(models))
		for _, m := range models {
			names = append(names, m.Name)
		}

		c.JSON(http.StatusOK, datatypes.HealthResponse{
			OK:               true,
			GatewayReachable: reachable,
			Models:           names,
		})
	}
}
