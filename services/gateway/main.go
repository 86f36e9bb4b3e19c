// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// The gateway binary fronts a locally running model server with the
// DeepPredict chat/image pipeline: prompt construction, reply normalization,
// and a liveness probe. Configuration is environment-only; every variable
// has a working local default.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/deeppredict/deeppredict/services/gateway/observability"
	"github.com/deeppredict/deeppredict/services/gateway/routes"
	"github.com/deeppredict/deeppredict/services/llm"
)

// initTracer wires the OTLP exporter when OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Without it the gateway runs untraced, which is the normal local setup.
func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return func(context.Context) {}, nil
	}

	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("deeppredict-gateway")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	var client llm.ModelClient
	backendLabel := "ollama"
	switch backend := os.Getenv("LLM_BACKEND_TYPE"); backend {
	case "openai":
		client, err = llm.NewOpenAICompatClient()
		backendLabel = "openai"
		slog.Info("Using OpenAI-compatible model backend")
	case "", "ollama":
		client = llm.NewOllamaClient()
		slog.Info("Using Ollama model backend")
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, defaulting to ollama", "value", backend)
		client = llm.NewOllamaClient()
	}
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	metrics := observability.NewGatewayMetrics(prometheus.DefaultRegisterer)
	apiKey := os.Getenv("GATEWAY_API_KEY")
	if apiKey == "" {
		slog.Info("GATEWAY_API_KEY not set, running in open mode")
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("deeppredict-gateway"))

	routes.SetupRoutes(router, client, metrics, backendLabel, apiKey)

	slog.Info("Starting the DeepPredict gateway", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
