// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deeppredict/deeppredict/pkg/logging"
	"github.com/deeppredict/deeppredict/pkg/ux"
)

// --- Global Command Variables ---
var (
	serverURL string
	apiKey    string
	plainOut  bool

	// cliLogger is replaced with a configured Logger in PersistentPreRun;
	// the Default keeps tests and direct calls from dereferencing nil.
	cliLogger = logging.Default()

	rootCmd = &cobra.Command{
		Use:   "deeppredict",
		Short: "A cli for the DeepPredict forecasting assistant",
		Long: `DeepPredict is a terminal client for the DeepPredict gateway:
				chat with the forecasting assistant, analyze chart images,
				and check gateway health.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if serverURL == "" {
				serverURL = os.Getenv("DEEPPREDICT_SERVER")
			}
			if serverURL == "" {
				serverURL = "http://localhost:3001"
			}
			if apiKey == "" {
				apiKey = os.Getenv("DEEPPREDICT_API_KEY")
			}
			if plainOut {
				ux.SetPlain(true)
			}
			cliLogger = logging.New(cliLoggingConfig(cmd.Name()))
			cliLogger.Debug("resolved configuration",
				"server", serverURL, "api_key_present", apiKey != "")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			cliLogger.Close()
		},
	}

	// --- Chat ---
	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Starts an interactive chat session with the forecasting assistant",
		Run:   runChatCommand, // Defined in cmd_chat.go
	}

	askCmd = &cobra.Command{
		Use:   "ask [question]",
		Short: "Asks a single question and prints the reply",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAskCommand, // Defined in cmd_ask.go
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Checks gateway and model server reachability",
		Run:   runHealthCommand, // Defined in cmd_health.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Gateway base URL (defaults to $DEEPPREDICT_SERVER, then http://localhost:3001)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "",
		"Bearer token for gateways running with GATEWAY_API_KEY set (defaults to $DEEPPREDICT_API_KEY)")
	rootCmd.PersistentFlags().BoolVar(&plainOut, "plain", false,
		"Force plain output (no colors or boxes); automatic when stdout is not a terminal")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(healthCmd)
}

func newClient() *GatewayClient {
	return NewGatewayClient(serverURL, apiKey)
}

// cliLoggingConfig builds the logging configuration for a CLI invocation.
// The chat TUI runs quiet with file-only logging so log lines never corrupt
// the alternate screen; other commands log text to stderr as usual.
// DEEPPREDICT_LOG_DIR overrides the file destination.
func cliLoggingConfig(cmdName string) logging.Config {
	config := logging.Config{
		Level:   logging.LevelInfo,
		Service: "cli",
		LogDir:  os.Getenv("DEEPPREDICT_LOG_DIR"),
	}
	if cmdName == "chat" {
		config.Quiet = true
		if config.LogDir == "" {
			config.LogDir = "~/.deeppredict/logs"
		}
	}
	return config
}
