// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request and response types for the gateway service.
//
// This file contains the chat pipeline types. For the domain knowledge base,
// see knowledge.go.
package datatypes

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Recommendation Constants
// =============================================================================

// Valid values for StructuredRecommendation.Recommendation. The model is
// instructed to emit exactly one of these; anything else fails validation
// and the reply is rendered as plain text.
const (
	RecommendationBuy      = "Buy"
	RecommendationHold     = "Hold"
	RecommendationSell     = "Sell"
	RecommendationNoAction = "No action"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// chatValidate is the validator instance for chat datatypes.
// Initialized in init() with custom validators.
var chatValidate *validator.Validate

func init() {
	chatValidate = validator.New()

	// "recommendation" cannot use the builtin oneof because "No action"
	// contains a space.
	_ = chatValidate.RegisterValidation("recommendation", validateRecommendation)
}

// validateRecommendation checks that a string field holds one of the four
// recommendation values the response contract allows.
func validateRecommendation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case RecommendationBuy, RecommendationHold, RecommendationSell, RecommendationNoAction:
		return true
	}
	return false
}

// =============================================================================
// Chat Request/Response Types
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Validate reports whether the request carries a usable message.
// Whitespace-only input counts as missing.
func (r ChatRequest) Validate() bool {
	return strings.TrimSpace(r.Message) != ""
}

// ChatReply is the success body of POST /chat and POST /image.
type ChatReply struct {
	Reply string `json:"reply"`
}

// HealthResponse is the body of GET /health.
//
// The handler always answers 200: an unreachable model server degrades to
// GatewayReachable == false with an empty Models slice. This is a liveness
// probe, not a correctness probe.
type HealthResponse struct {
	OK               bool     `json:"ok"`
	GatewayReachable bool     `json:"gatewayReachable"`
	Models           []string `json:"models"`
}

// =============================================================================
// Structured Recommendation
// =============================================================================

// StructuredRecommendation is the JSON object the model is required to emit
// when the user asks for a trading/decision prescription.
//
// # Description
//
// Produced only by parsing a JSON fragment out of an assistant reply
// (see pkg/conversation). Absent when parsing fails or the reply is plain
// text; that downgrade is a normal branch, not an error.
//
// # Fields
//
//   - Recommendation: one of Buy, Hold, Sell, No action
//   - Confidence: model self-estimate in [0,1]
//   - RiskScore: integer in [0,100]
//   - Rationale: short free-text explanation
//   - Steps: ordered action list
//   - Note: optional caveat
type StructuredRecommendation struct {
	Recommendation string   `json:"recommendation" validate:"required,recommendation"`
	Confidence     float64  `json:"confidence" validate:"gte=0,lte=1"`
	RiskScore      int      `json:"risk_score" validate:"gte=0,lte=100"`
	Rationale      string   `json:"rationale" validate:"required"`
	Steps          []string `json:"steps" validate:"required,min=1"`
	Note           string   `json:"note,omitempty"`
}

// Validate checks the recommendation against the response contract.
func (s StructuredRecommendation) Validate() error {
	return chatValidate.Struct(s)
}
