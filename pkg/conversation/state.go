// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package conversation models the chat client's session state as an explicit
// state machine.
//
// # Description
//
// All mutation goes through Apply (reducer.go): given the current State and
// an Event, it returns the next State plus an optional Effect describing the
// I/O the caller must perform. The reducer itself does no I/O, which keeps
// every transition unit-testable without a server.
//
// # Invariants
//
//   - Messages is append-only and never reordered; render order equals
//     insertion order.
//   - At most one attachment is pending at any time; issuing a send consumes
//     it, so a file selected while a request is in flight stays queued.
//   - At most one request is in flight: submit events during AwaitingReply
//     are dropped.
//
// # Thread Safety
//
// State values are plain data. The reducer is pure; callers running it from
// multiple goroutines must serialize externally (the bubbletea event loop
// already does).
package conversation

import (
	"github.com/deeppredict/deeppredict/services/gateway/datatypes"
)

// Phase is the request lifecycle state.
type Phase int

const (
	// PhaseIdle accepts submissions.
	PhaseIdle Phase = iota

	// PhaseAwaitingReply has exactly one request in flight; submission is
	// disabled until the reply or failure arrives.
	PhaseAwaitingReply
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry in the transcript.
type Message struct {
	Sender Sender
	Text   string

	// HasImage marks user messages that carried an attachment.
	HasImage bool

	// Structured is set only when the assistant reply parsed as a
	// recommendation object; nil means plain text.
	Structured *datatypes.StructuredRecommendation
}

// PendingAttachment is the image selected but not yet sent.
type PendingAttachment struct {
	Path string
	Data []byte

	// Preview is a data URL decoded asynchronously after selection; empty
	// until the PreviewReady event lands. Rendering never waits for it.
	Preview string
}

// State is the complete client session state.
type State struct {
	Messages []Message
	Phase    Phase

	// MenuOpen tracks the "+" attachment menu, orthogonal to Phase.
	MenuOpen bool

	// Pending is the queued attachment, nil when none.
	Pending *PendingAttachment

	// awaitingImage records whether the in-flight request went to the image
	// endpoint; image replies skip structured extraction.
	awaitingImage bool
}

// NewState returns the initial state with the standard greeting.
func NewState() State {
	return State{
		Messages: []Message{{
			Sender: SenderAssistant,
			Text: "Hello — upload a snapshot and add your question (or type a question) " +
				"and press enter to send both.",
		}},
		Phase: PhaseIdle,
	}
}

// CanSubmit reports whether a submission would be accepted right now.
func (s State) CanSubmit(text string) bool {
	if s.Phase != PhaseIdle {
		return false
	}
	return text != "" || s.Pending != nil
}
