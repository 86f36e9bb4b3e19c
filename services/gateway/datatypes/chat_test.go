// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ChatRequest Tests
// =============================================================================

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "normal message", message: "should i buy AAPL?", want: true},
		{name: "empty", message: "", want: false},
		{name: "whitespace only", message: "   \t\n", want: false},
		{name: "single character", message: "x", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChatRequest{Message: tt.message}.Validate())
		})
	}
}

// =============================================================================
// StructuredRecommendation Tests
// =============================================================================

func validRecommendation() StructuredRecommendation {
	return StructuredRecommendation{
		Recommendation: RecommendationBuy,
		Confidence:     0.8,
		RiskScore:      20,
		Rationale:      "momentum looks strong",
		Steps:          []string{"open a small position", "set a stop loss"},
	}
}

func TestStructuredRecommendationValidate(t *testing.T) {
	require.NoError(t, validRecommendation().Validate())
}

func TestStructuredRecommendationAcceptsAllVerdicts(t *testing.T) {
	for _, verdict := range []string{
		RecommendationBuy, RecommendationHold, RecommendationSell, RecommendationNoAction,
	} {
		s := validRecommendation()
		s.Recommendation = verdict
		assert.NoError(t, s.Validate(), "verdict %q should validate", verdict)
	}
}

func TestStructuredRecommendationRejectsUnknownVerdict(t *testing.T) {
	s := validRecommendation()
	s.Recommendation = "Short"
	assert.Error(t, s.Validate())
}

func TestStructuredRecommendationRejectsOutOfRangeConfidence(t *testing.T) {
	s := validRecommendation()
	s.Confidence = 1.2
	assert.Error(t, s.Validate())

	s = validRecommendation()
	s.Confidence = -0.1
	assert.Error(t, s.Validate())
}

func TestStructuredRecommendationRejectsOutOfRangeRisk(t *testing.T) {
	s := validRecommendation()
	s.RiskScore = 101
	assert.Error(t, s.Validate())

	s = validRecommendation()
	s.RiskScore = -1
	assert.Error(t, s.Validate())
}

func TestStructuredRecommendationRequiresSteps(t *testing.T) {
	s := validRecommendation()
	s.Steps = nil
	assert.Error(t, s.Validate())
}

func TestStructuredRecommendationNoteIsOptional(t *testing.T) {
	s := validRecommendation()
	s.Note = ""
	assert.NoError(t, s.Validate())

	s.Note = "thin volume this week"
	assert.NoError(t, s.Validate())
}

// =============================================================================
// Domain Knowledge Tests
// =============================================================================

func TestDomainKnowledgeOrderIsFixed(t *testing.T) {
	wantKeys := []string{"arima", "ecommerce", "stock", "realestate", "supplychain"}
	require.Len(t, DomainKnowledge, len(wantKeys))
	for i, entry := range DomainKnowledge {
		assert.Equal(t, wantKeys[i], entry.Key)
		assert.NotEmpty(t, entry.Text)
	}
}
