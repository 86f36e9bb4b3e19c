// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import "strings"

// Apply runs one transition. Unknown or currently meaningless events leave
// the state unchanged with no effect.
func Apply(s State, e Event) (State, Effect) {
	switch ev := e.(type) {
	case FileSelected:
		return applyFileSelected(s, ev)
	case PreviewReady:
		return applyPreviewReady(s, ev)
	case MenuToggled:
		s.MenuOpen = !s.MenuOpen
		return s, nil
	case MenuDismissed:
		s.MenuOpen = false
		return s, nil
	case SubmitRequested:
		return applySubmit(s, ev)
	case ReplyReceived:
		return applyReply(s, ev)
	case RequestFailed:
		return applyFailure(s, ev)
	}
	return s, nil
}

func applyFileSelected(s State, ev FileSelected) (State, Effect) {
	s.Pending = &PendingAttachment{Path: ev.Path, Data: ev.Data}
	s.MenuOpen = false
	return s, DecodePreview{Path: ev.Path, Data: ev.Data}
}

func applyPreviewReady(s State, ev PreviewReady) (State, Effect) {
	// The attachment may have been sent or replaced while the preview was
	// decoding; a stale preview is dropped.
	if s.Pending == nil || s.Pending.Path != ev.Path {
		return s, nil
	}
	pending := *s.Pending
	pending.Preview = ev.Preview
	s.Pending = &pending
	return s, nil
}

func applySubmit(s State, ev SubmitRequested) (State, Effect) {
	text := strings.TrimSpace(ev.Text)
	if !s.CanSubmit(text) {
		return s, nil
	}

	if s.Pending != nil {
		display := text
		if display == "" {
			display = "(Image + no text)"
		}
		s.Messages = append(s.Messages, Message{
			Sender:   SenderUser,
			Text:     display,
			HasImage: true,
		})
		s.Phase = PhaseAwaitingReply
		s.awaitingImage = true
		// The attachment is consumed at send time, so a file selected while
		// this request is still in flight survives the settle.
		effect := SendImage{Path: s.Pending.Path, Data: s.Pending.Data, Message: text}
		s.Pending = nil
		return s, effect
	}

	s.Messages = append(s.Messages, Message{Sender: SenderUser, Text: text})
	s.Phase = PhaseAwaitingReply
	s.awaitingImage = false
	return s, SendChat{Message: text}
}

func applyReply(s State, ev ReplyReceived) (State, Effect) {
	if s.Phase != PhaseAwaitingReply {
		return s, nil
	}

	reply := ev.Reply
	if reply == "" {
		reply = "No response"
	}

	msg := Message{Sender: SenderAssistant, Text: reply}
	if !s.awaitingImage {
		// Structured extraction is chat-only; parse failure is a normal
		// branch that keeps the raw text.
		if structured, err := ExtractStructured(reply); err == nil {
			msg.Structured = structured
		}
	}

	s.Messages = append(s.Messages, msg)
	return settle(s), nil
}

func applyFailure(s State, ev RequestFailed) (State, Effect) {
	if s.Phase != PhaseAwaitingReply {
		return s, nil
	}

	text := ev.Text
	if text == "" {
		text = "Unable to contact server. Try again."
	}
	s.Messages = append(s.Messages, Message{Sender: SenderAssistant, Text: text})
	return settle(s), nil
}

// settle returns to Idle. The pending attachment is untouched: it was
// consumed when the send was issued, and anything selected since belongs to
// the next submit.
func settle(s State) State {
	s.Phase = PhaseIdle
	s.awaitingImage = false
	return s
}
