// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package prompt assembles the instruction prompts sent to the model server.
//
// Both builders are pure: no I/O, no clock, no randomness. The rendered
// output for a given input never changes, which keeps repeated requests
// byte-identical upstream.
//
// Neither builder sanitizes or truncates user input before interpolating it.
// A user message can therefore carry instructions that override the persona
// block (prompt injection). That exposure is inherited from the product
// contract, not an oversight; see DESIGN.md.
package prompt

import (
	"fmt"
	"strings"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
)

const systemInstructions = `You are DeepPredict Assistant — a decision-support assistant for forecasting and business analytics.

When the user asks for a trading/decision recommendation (Buy/Hold/Sell),
you MUST FIRST RETURN exactly one JSON object with:

{
  "recommendation": "Buy" | "Hold" | "Sell" | "No action",
  "confidence": 0.0-1.0,
  "risk_score": 0-100,
  "rationale": "short explanation",
  "steps": ["step 1", "step 2"],
  "note": "optional"
}

If the user asks general questions or explanations (no prescription),
reply normally in plain text.

DO NOT return JSON when analyzing images unless user explicitly asks for JSON; prefer normal text for image analysis.`

const trailingReminder = "(Return EXACTLY ONE JSON object for prescriptions, otherwise plain text.)"

const imageInstructions = `You are DeepPredict Assistant. The user uploaded an image and may have asked a specific question.
IMPORTANT: For images, ALWAYS respond in NORMAL TEXT (do NOT return JSON unless explicitly requested).
Provide clear observations, likely explanations, and suggested next steps.

Image is attached as base64 below.`

// BuildChatPrompt renders the full chat prompt: persona and response
// contract, the domain knowledge base in fixed order, the literal user
// message, and a trailing contract reminder.
func BuildChatPrompt(userMessage string) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nDOMAIN KNOWLEDGE:\n")
	b.WriteString(renderKnowledgeBase())
	b.WriteString("\n\nUSER:\n")
	b.WriteString(userMessage)
	b.WriteString("\n\nASSISTANT:\n")
	b.WriteString(trailingReminder)
	return b.String()
}

// BuildImagePrompt renders the image-analysis prompt. The optional user
// question is quoted verbatim; the base64 payload is embedded inline after a
// delimiter line with no size cap. Oversized images are forwarded as-is and
// left to the upstream server to reject.
func BuildImagePrompt(userMessage string, imageBase64 string) string {
	var b strings.Builder
	b.WriteString(imageInstructions)
	b.WriteString("\n")
	if q := strings.TrimSpace(userMessage); q != "" {
		fmt.Fprintf(&b, "\nUser question/context: %q\n", q)
	}
	b.WriteString("\nIMAGE(base64):\n")
	b.WriteString(imageBase64)
	b.WriteString("\n\nPlease analyze the image and answer the user's question if provided.")
	return b.String()
}

// renderKnowledgeBase joins the knowledge entries as "### KEY" sections,
// preserving table order.
func renderKnowledgeBase() string {
	sections := make([]string, 0, len(datatypes.DomainKnowledge))
	for _, entry := range datatypes.DomainKnowledge {
		sections = append(sections, fmt.Sprintf("### %s\n%s", strings.ToUpper(entry.Key), entry.Text))
	}
	return strings.Join(sections, "\n\n")
}
