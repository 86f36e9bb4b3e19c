// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deeppredict/deeppredict/pkg/ux"
)

// runChatCommand starts the interactive TUI chat session.
func runChatCommand(cmd *cobra.Command, args []string) {
	cliLogger.Info("chat session started", "server", serverURL)
	program := tea.NewProgram(newChatModel(newClient()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		cliLogger.Error("chat session failed", "error", err)
		ux.Error("chat session failed: " + err.Error())
		os.Exit(1)
	}
}
