// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Attachment Lifecycle
// =============================================================================

func TestFileSelectedQueuesAttachmentAndClosesMenu(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, MenuToggled{})
	require.True(t, s.MenuOpen)

	s, effect := Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})

	require.NotNil(t, s.Pending)
	assert.Equal(t, "chart.png", s.Pending.Path)
	assert.False(t, s.MenuOpen)
	assert.Equal(t, DecodePreview{Path: "chart.png", Data: []byte("img")}, effect)
}

func TestSecondFileSelectedReplacesFirst(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "first.png", Data: []byte("a")})
	s, _ = Apply(s, FileSelected{Path: "second.png", Data: []byte("b")})

	// At most one pending attachment.
	require.NotNil(t, s.Pending)
	assert.Equal(t, "second.png", s.Pending.Path)
}

func TestPreviewReadyAttachesWithoutBlockingSelection(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})

	// Selection completed before the preview decoded.
	assert.Empty(t, s.Pending.Preview)

	s, effect := Apply(s, PreviewReady{Path: "chart.png", Preview: "data:image/png;base64,aW1n"})
	assert.Nil(t, effect)
	assert.Equal(t, "data:image/png;base64,aW1n", s.Pending.Preview)
}

func TestStalePreviewIsDropped(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "first.png", Data: []byte("a")})
	s, _ = Apply(s, FileSelected{Path: "second.png", Data: []byte("b")})

	s, _ = Apply(s, PreviewReady{Path: "first.png", Preview: "stale"})
	assert.Empty(t, s.Pending.Preview)
}

func TestAttachmentLifecycleThroughSuccessfulSend(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})
	require.NotNil(t, s.Pending)

	s, effect := Apply(s, SubmitRequested{Text: "what is this?"})
	assert.Equal(t, PhaseAwaitingReply, s.Phase)
	require.IsType(t, SendImage{}, effect)
	assert.Equal(t, "what is this?", effect.(SendImage).Message)

	s, _ = Apply(s, ReplyReceived{Reply: "an uptrend"})
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Nil(t, s.Pending, "sending clears the attachment on success")
}

func TestAttachmentClearedEvenWhenSendFails(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})
	s, _ = Apply(s, SubmitRequested{Text: ""})
	require.Equal(t, PhaseAwaitingReply, s.Phase)

	s, _ = Apply(s, RequestFailed{Text: "Image server error: 500"})
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Nil(t, s.Pending, "sending clears the attachment on failure too")
}

func TestFileSelectedDuringInflightRequestSurvivesSettle(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "what happened here"})
	require.Equal(t, PhaseAwaitingReply, s.Phase)

	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})
	require.NotNil(t, s.Pending)

	s, _ = Apply(s, ReplyReceived{Reply: "a sharp drop"})
	assert.Equal(t, PhaseIdle, s.Phase)
	require.NotNil(t, s.Pending, "attachment queued mid-flight stays for the next submit")
	assert.Equal(t, "chart.png", s.Pending.Path)

	// The queued attachment goes out with the next submit as usual.
	_, effect := Apply(s, SubmitRequested{Text: "and this?"})
	send, ok := effect.(SendImage)
	require.True(t, ok)
	assert.Equal(t, "chart.png", send.Path)
}

// =============================================================================
// Submission Guards
// =============================================================================

func TestSubmitWithNothingToSendIsNoOp(t *testing.T) {
	s := NewState()
	before := len(s.Messages)

	s, effect := Apply(s, SubmitRequested{Text: "   "})

	assert.Nil(t, effect)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Len(t, s.Messages, before)
}

func TestSubmitWhileAwaitingReplyIsDropped(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "first"})
	require.Equal(t, PhaseAwaitingReply, s.Phase)
	countAfterFirst := len(s.Messages)

	s, effect := Apply(s, SubmitRequested{Text: "second"})

	assert.Nil(t, effect, "only one request may be in flight")
	assert.Len(t, s.Messages, countAfterFirst)
}

func TestSubmitTextOnlyIssuesChatRequest(t *testing.T) {
	s := NewState()
	s, effect := Apply(s, SubmitRequested{Text: "should i buy AAPL?"})

	assert.Equal(t, PhaseAwaitingReply, s.Phase)
	assert.Equal(t, SendChat{Message: "should i buy AAPL?"}, effect)

	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, SenderUser, last.Sender)
	assert.Equal(t, "should i buy AAPL?", last.Text)
	assert.False(t, last.HasImage)
}

func TestSubmitAttachmentOnlyUsesPlaceholderText(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})
	s, _ = Apply(s, SubmitRequested{Text: ""})

	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, "(Image + no text)", last.Text)
	assert.True(t, last.HasImage)
}

// =============================================================================
// Reply Handling
// =============================================================================

func TestPlainTextReplyHasNoStructuredPayload(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "explain ARIMA"})
	s, _ = Apply(s, ReplyReceived{Reply: "ARIMA models a differenced series."})

	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, SenderAssistant, last.Sender)
	assert.Equal(t, "ARIMA models a differenced series.", last.Text)
	assert.Nil(t, last.Structured)
}

func TestStructuredReplyIsParsedAndRawTextKept(t *testing.T) {
	raw := "```json\n{\"recommendation\":\"Buy\",\"confidence\":0.8,\"risk_score\":20," +
		"\"rationale\":\"x\",\"steps\":[\"a\"]}\n```"

	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "should i buy?"})
	s, _ = Apply(s, ReplyReceived{Reply: raw})

	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, raw, last.Text, "raw reply text is preserved verbatim")
	require.NotNil(t, last.Structured)
	assert.Equal(t, "Buy", last.Structured.Recommendation)
	assert.InDelta(t, 0.8, last.Structured.Confidence, 1e-9)
	assert.Equal(t, 20, last.Structured.RiskScore)
	assert.Equal(t, []string{"a"}, last.Structured.Steps)
}

func TestImageReplySkipsStructuredExtraction(t *testing.T) {
	structuredLooking := `{"recommendation":"Buy","confidence":0.8,"risk_score":20,` +
		`"rationale":"x","steps":["a"]}`

	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})
	s, _ = Apply(s, SubmitRequested{Text: ""})
	s, _ = Apply(s, ReplyReceived{Reply: structuredLooking})

	last := s.Messages[len(s.Messages)-1]
	assert.Nil(t, last.Structured, "image analysis replies render as plain text")
}

func TestEmptyReplyGetsPlaceholder(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "hello"})
	s, _ = Apply(s, ReplyReceived{Reply: ""})

	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, "No response", last.Text)
}

func TestFailureAppendsErrorMessageAndReturnsToIdle(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "hello"})
	s, _ = Apply(s, RequestFailed{})

	assert.Equal(t, PhaseIdle, s.Phase)
	last := s.Messages[len(s.Messages)-1]
	assert.Equal(t, SenderAssistant, last.Sender)
	assert.Equal(t, "Unable to contact server. Try again.", last.Text)
}

func TestStrayRepliesOutsideAwaitingAreIgnored(t *testing.T) {
	s := NewState()
	before := len(s.Messages)

	s, _ = Apply(s, ReplyReceived{Reply: "unsolicited"})
	s, _ = Apply(s, RequestFailed{Text: "unsolicited"})

	assert.Len(t, s.Messages, before)
}

// =============================================================================
// Menu and Ordering
// =============================================================================

func TestMenuDismissalLeavesOtherStateAlone(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, FileSelected{Path: "chart.png", Data: []byte("img")})
	s, _ = Apply(s, MenuToggled{})
	require.True(t, s.MenuOpen)

	s, _ = Apply(s, MenuDismissed{})
	assert.False(t, s.MenuOpen)
	assert.NotNil(t, s.Pending)
	assert.Equal(t, PhaseIdle, s.Phase)
}

func TestTranscriptIsAppendOnly(t *testing.T) {
	s := NewState()
	s, _ = Apply(s, SubmitRequested{Text: "one"})
	s, _ = Apply(s, ReplyReceived{Reply: "answer one"})
	s, _ = Apply(s, SubmitRequested{Text: "two"})
	s, _ = Apply(s, ReplyReceived{Reply: "answer two"})

	var texts []string
	for _, m := range s.Messages[1:] { // skip greeting
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"one", "answer one", "two", "answer two"}, texts)
}
