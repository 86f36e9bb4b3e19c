// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deeppredict/deeppredict/pkg/conversation"
	"github.com/deeppredict/deeppredict/pkg/ux"
)

// Styles for the chat transcript.
var (
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(ux.ColorIndigo)
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ux.ColorGreenBright)
	attachmentTagStyle  = lipgloss.NewStyle().Foreground(ux.ColorSlate)
	menuStyle           = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ux.ColorIndigo).
				Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(ux.ColorSlate)
)

// Messages produced by effect commands.
type previewDoneMsg struct {
	path    string
	preview string
}

type gatewayReplyMsg struct{ reply string }

type gatewayFailedMsg struct{ text string }

// chatModel is the bubbletea model for the interactive chat session.
//
// All conversation logic lives in the pkg/conversation reducer; this model
// only translates terminal input into events, executes the returned effects
// as tea.Cmds, and renders the resulting state.
type chatModel struct {
	client *GatewayClient

	state    conversation.State
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	width   int
	height  int
	ready   bool
	fileErr string
}

func newChatModel(client *GatewayClient) chatModel {
	in := textinput.New()
	in.Placeholder = "Ask about a forecast, or ctrl+a to attach a chart"
	in.Prompt = "> "
	in.Focus()
	in.CharLimit = 0
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ux.ColorAmber)

	return chatModel{
		client: client,
		state:  conversation.NewState(),
		input:  in,
		spin:   s,
	}
}

// Init implements tea.Model.
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 4
		viewportHeight := msg.Height - headerHeight - footerHeight
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state.MenuOpen {
				m.state, _ = conversation.Apply(m.state, conversation.MenuDismissed{})
				m.fileErr = ""
				m.input.Reset()
				return m, nil
			}
			return m, tea.Quit
		case "ctrl+a":
			m.state, _ = conversation.Apply(m.state, conversation.MenuToggled{})
			m.fileErr = ""
			m.input.Reset()
			if m.state.MenuOpen {
				m.input.Placeholder = "Path to image file"
			} else {
				m.input.Placeholder = "Ask about a forecast, or ctrl+a to attach a chart"
			}
			return m, nil
		case "enter":
			if m.state.MenuOpen {
				return m.selectFile(m.input.Value())
			}
			return m.submit(m.input.Value())
		}

	case previewDoneMsg:
		m.state, _ = conversation.Apply(m.state, conversation.PreviewReady{
			Path:    msg.path,
			Preview: msg.preview,
		})
		return m, nil

	case gatewayReplyMsg:
		m.state, _ = conversation.Apply(m.state, conversation.ReplyReceived{Reply: msg.reply})
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case gatewayFailedMsg:
		m.state, _ = conversation.Apply(m.state, conversation.RequestFailed{Text: msg.text})
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase == conversation.PhaseAwaitingReply {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// selectFile reads the file typed into the attachment menu and feeds it to
// the reducer. Read failures stay inside the menu so the path can be fixed.
func (m chatModel) selectFile(path string) (tea.Model, tea.Cmd) {
	path = strings.TrimSpace(path)
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		m.fileErr = err.Error()
		return m, nil
	}

	var effect conversation.Effect
	m.state, effect = conversation.Apply(m.state, conversation.FileSelected{Path: path, Data: data})
	m.fileErr = ""
	m.input.Reset()
	m.input.Placeholder = "Ask about a forecast, or ctrl+a to attach a chart"
	return m, m.runEffect(effect)
}

func (m chatModel) submit(text string) (tea.Model, tea.Cmd) {
	var effect conversation.Effect
	m.state, effect = conversation.Apply(m.state, conversation.SubmitRequested{Text: text})
	if effect == nil {
		return m, nil
	}
	m.input.Reset()
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.runEffect(effect), m.spin.Tick)
}

// runEffect turns a reducer effect into a tea.Cmd performing the I/O.
func (m chatModel) runEffect(effect conversation.Effect) tea.Cmd {
	switch e := effect.(type) {
	case conversation.DecodePreview:
		return func() tea.Msg {
			return previewDoneMsg{
				path:    e.Path,
				preview: base64.StdEncoding.EncodeToString(e.Data),
			}
		}
	case conversation.SendChat:
		client := m.client
		return func() tea.Msg {
			reply, err := client.SendChat(context.Background(), e.Message)
			if err != nil {
				cliLogger.Warn("chat request failed", "error", err)
				return gatewayFailedMsg{}
			}
			return gatewayReplyMsg{reply: reply}
		}
	case conversation.SendImage:
		client := m.client
		return func() tea.Msg {
			reply, err := client.SendImage(context.Background(), e.Path, e.Data, e.Message)
			if err != nil {
				cliLogger.Warn("image upload failed", "path", e.Path, "error", err)
				return gatewayFailedMsg{text: "Image upload failed. Try again."}
			}
			return gatewayReplyMsg{reply: reply}
		}
	}
	return nil
}

// refreshTranscript re-renders the conversation into the viewport.
func (m *chatModel) refreshTranscript() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, message := range m.state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderMessage(message, m.viewport.Width))
	}
	m.viewport.SetContent(b.String())
}

func renderMessage(message conversation.Message, width int) string {
	var b strings.Builder
	if message.Sender == conversation.SenderUser {
		b.WriteString(userLabelStyle.Render("You"))
	} else {
		b.WriteString(assistantLabelStyle.Render("DeepPredict"))
	}
	if message.HasImage {
		b.WriteString(" " + attachmentTagStyle.Render("[chart attached]"))
	}
	b.WriteString("\n")

	if message.Structured != nil {
		b.WriteString(ux.RenderRecommendation(message.Structured))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(message.Text))
	}
	return b.String()
}

// View implements tea.Model.
func (m chatModel) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(ux.Styles.Title.Render("DeepPredict"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.state.Phase == conversation.PhaseAwaitingReply:
		b.WriteString(m.spin.View() + statusStyle.Render(" waiting for the model..."))
	case m.state.Pending != nil:
		b.WriteString(statusStyle.Render(fmt.Sprintf("attached: %s (enter to send, ctrl+a to replace)", m.state.Pending.Path)))
	default:
		b.WriteString(statusStyle.Render("ctrl+a attach · esc quit"))
	}
	b.WriteString("\n")

	if m.state.MenuOpen {
		content := "Attach an image\n" + m.input.View()
		if m.fileErr != "" {
			content += "\n" + ux.Styles.Error.Render(m.fileErr)
		}
		b.WriteString(menuStyle.Render(content))
	} else {
		b.WriteString(m.input.View())
	}
	return b.String()
}
