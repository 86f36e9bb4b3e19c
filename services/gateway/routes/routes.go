// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deeppredict/deeppredict/services/gateway/handlers"
	"github.com/deeppredict/deeppredict/services/gateway/middleware"
	"github.com/deeppredict/deeppredict/services/gateway/observability"
	"github.com/deeppredict/deeppredict/services/llm"
)

// SetupRoutes registers the gateway's HTTP surface.
//
// /health and /metrics stay open regardless of auth configuration so probes
// and scrapers keep working; the chat pipeline sits behind the optional
// API key. backend is the configured model backend name, used as the metric
// label on upstream latency.
func SetupRoutes(router *gin.Engine, client llm.ModelClient,
	metrics *observability.GatewayMetrics, backend, apiKey string) {

	router.GET("/health", handlers.HandleHealth(client))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := router.Group("/")
	authed.Use(middleware.APIKeyAuth(apiKey))
	{
		authed.POST("/chat", handlers.HandleChat(client, metrics, backend))
		authed.POST("/image", handlers.HandleImage(client, metrics, backend))
	}
}
