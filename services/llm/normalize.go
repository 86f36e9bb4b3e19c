// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"encoding/json"
	"strings"
)

// replyProbe attempts to extract the assistant text from a raw upstream body.
// It reports false when the body does not match the shape it understands.
type replyProbe func(body []byte) (string, bool)

// Local model servers answer generate-style calls with several envelope
// shapes depending on version and compatibility mode. The probes run in a
// fixed priority order; the order is part of the contract and must not
// change:
//
//  1. a string value at "response" (Ollama native)
//  2. the body itself is a JSON string
//  3. an array "choices": join each element's "text" or "content" with
//     newlines and trim (OpenAI completion style)
//  4. a string value at "text"
//  5. fall back to the raw body verbatim
var replyProbes = []replyProbe{
	probeResponseField,
	probeWholeBodyString,
	probeChoicesArray,
	probeTextField,
}

// NormalizeReply extracts the assistant text from a raw upstream body.
// The first matching probe wins; an unrecognized body is returned verbatim.
func NormalizeReply(body []byte) string {
	for _, probe := range replyProbes {
		if reply, ok := probe(body); ok {
			return reply
		}
	}
	return string(body)
}

func probeResponseField(body []byte) (string, bool) {
	return stringField(body, "response")
}

func probeWholeBodyString(body []byte) (string, bool) {
	var whole string
	if err := json.Unmarshal(body, &whole); err != nil {
		return "", false
	}
	return whole, true
}

// probeChoicesArray handles OpenAI-completion style envelopes. Elements
// contribute their "text" field, or "content" when "text" is absent.
func probeChoicesArray(body []byte) (string, bool) {
	var envelope struct {
		Choices []struct {
			Text    string `json:"text"`
			Content string `json:"content"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Choices == nil {
		return "", false
	}
	parts := make([]string, 0, len(envelope.Choices))
	for _, c := range envelope.Choices {
		if c.Text != "" {
			parts = append(parts, c.Text)
		} else {
			parts = append(parts, c.Content)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), true
}

func probeTextField(body []byte) (string, bool) {
	return stringField(body, "text")
}

func stringField(body []byte, key string) (string, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", false
	}
	raw, ok := envelope[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}
