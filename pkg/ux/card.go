// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
)

// verdictStyle maps a recommendation verdict to its pill color.
func verdictStyle(recommendation string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#0F1419"))
	switch recommendation {
	case datatypes.RecommendationBuy:
		return base.Background(ColorGreenBright)
	case datatypes.RecommendationSell:
		return base.Background(ColorRed)
	case datatypes.RecommendationHold:
		return base.Background(ColorAmber)
	default:
		return base.Background(ColorSlate).Foreground(lipgloss.Color("#FFFFFF"))
	}
}

// RenderRecommendation renders a structured recommendation as a card.
//
// Styled mode draws a bordered card with a colored verdict pill; plain mode
// emits an indented text block with the same content.
func RenderRecommendation(rec *datatypes.StructuredRecommendation) string {
	if rec == nil {
		return ""
	}
	if IsPlain() {
		return renderPlainRecommendation(rec)
	}

	var b strings.Builder

	pill := verdictStyle(rec.Recommendation).Render(strings.ToUpper(rec.Recommendation))
	meta := Styles.Muted.Render(fmt.Sprintf("confidence %.0f%%  ·  risk %d/100",
		rec.Confidence*100, rec.RiskScore))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, pill, "  ", meta))
	b.WriteString("\n\n")

	b.WriteString(rec.Rationale)
	b.WriteString("\n")

	for i, step := range rec.Steps {
		b.WriteString(fmt.Sprintf("\n%s %s", Styles.Bold.Render(fmt.Sprintf("%d.", i+1)), step))
	}

	if rec.Note != "" {
		b.WriteString("\n\n")
		b.WriteString(Styles.Muted.Render("Note: " + rec.Note))
	}

	return Styles.Box.Render(b.String())
}

func renderPlainRecommendation(rec *datatypes.StructuredRecommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommendation: %s\n", rec.Recommendation)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", rec.Confidence*100)
	fmt.Fprintf(&b, "Risk: %d/100\n", rec.RiskScore)
	fmt.Fprintf(&b, "Rationale: %s\n", rec.Rationale)
	for i, step := range rec.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}
	if rec.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", rec.Note)
	}
	return strings.TrimRight(b.String(), "\n")
}
