// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
)

// fencedBlockRe matches a markdown code fence, optionally tagged json, and
// captures its body.
var fencedBlockRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ParseFailure reports that a reply did not contain a structured
// recommendation. It is an expected outcome, not a fault: plain-text replies
// carry no recommendation to extract.
type ParseFailure struct {
	Reason string
}

func (e *ParseFailure) Error() string {
	return "no structured recommendation: " + e.Reason
}

// ExtractStructured attempts to pull a StructuredRecommendation out of an
// assistant reply.
//
// The candidate JSON is the body of the first fenced code block when one is
// present, otherwise the whole reply. The candidate must decode as a JSON
// object and pass recommendation validation; anything else is a ParseFailure
// and the caller keeps the raw text.
func ExtractStructured(raw string) (*datatypes.StructuredRecommendation, error) {
	candidate := strings.TrimSpace(raw)
	if match := fencedBlockRe.FindStringSubmatch(raw); match != nil {
		candidate = match[1]
	}
	if candidate == "" || candidate[0] != '{' {
		return nil, &ParseFailure{Reason: "reply is not a JSON object"}
	}

	var rec datatypes.StructuredRecommendation
	if err := json.Unmarshal([]byte(candidate), &rec); err != nil {
		return nil, &ParseFailure{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := rec.Validate(); err != nil {
		return nil, &ParseFailure{Reason: fmt.Sprintf("not a recommendation: %v", err)}
	}
	return &rec, nil
}
