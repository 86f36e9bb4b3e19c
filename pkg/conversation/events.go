// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

// Event is one input to the reducer. The concrete types below are the only
// implementations.
type Event interface {
	isEvent()
}

// FileSelected queues an image for the next submission, replacing any
// previously queued one, and closes the attachment menu.
type FileSelected struct {
	Path string
	Data []byte
}

// PreviewReady delivers the asynchronously decoded preview for the pending
// attachment. Arrives after FileSelected; ignored when the attachment has
// already been sent or replaced.
type PreviewReady struct {
	Path    string
	Preview string
}

// MenuToggled flips the attachment menu open/closed.
type MenuToggled struct{}

// MenuDismissed closes the attachment menu without touching anything else
// (outside click or cancel key).
type MenuDismissed struct{}

// SubmitRequested asks to send the composed input.
type SubmitRequested struct {
	Text string
}

// ReplyReceived delivers a successful gateway reply.
type ReplyReceived struct {
	Reply string
}

// RequestFailed delivers a failed gateway call. Text is the message shown in
// the transcript.
type RequestFailed struct {
	Text string
}

func (FileSelected) isEvent()    {}
func (PreviewReady) isEvent()    {}
func (MenuToggled) isEvent()     {}
func (MenuDismissed) isEvent()   {}
func (SubmitRequested) isEvent() {}
func (ReplyReceived) isEvent()   {}
func (RequestFailed) isEvent()   {}

// Effect describes I/O the caller must perform after a transition. A nil
// Effect means nothing to do.
type Effect interface {
	isEffect()
}

// DecodePreview asks the caller to produce a preview data URL for the
// pending attachment and feed it back as PreviewReady.
type DecodePreview struct {
	Path string
	Data []byte
}

// SendChat asks the caller to POST the text message to the chat endpoint and
// feed the outcome back as ReplyReceived or RequestFailed.
type SendChat struct {
	Message string
}

// SendImage asks the caller to POST the attachment (plus optional text) to
// the image endpoint and feed the outcome back as ReplyReceived or
// RequestFailed.
type SendImage struct {
	Path    string
	Data    []byte
	Message string
}

func (DecodePreview) isEffect() {}
func (SendChat) isEffect()      {}
func (SendImage) isEffect()     {}
