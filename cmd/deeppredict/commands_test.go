// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deeppredict/deeppredict/pkg/logging"
)

func TestCLILoggingConfigDefaults(t *testing.T) {
	t.Setenv("DEEPPREDICT_LOG_DIR", "")

	config := cliLoggingConfig("ask")

	assert.Equal(t, "cli", config.Service)
	assert.Equal(t, logging.LevelInfo, config.Level)
	assert.False(t, config.Quiet)
	assert.Empty(t, config.LogDir, "file logging stays off unless requested")
}

func TestCLILoggingConfigChatIsQuietWithFileFallback(t *testing.T) {
	t.Setenv("DEEPPREDICT_LOG_DIR", "")

	config := cliLoggingConfig("chat")

	assert.True(t, config.Quiet, "the TUI must not write log lines to its own screen")
	assert.Equal(t, "~/.deeppredict/logs", config.LogDir)
}

func TestCLILoggingConfigHonorsLogDirEnv(t *testing.T) {
	t.Setenv("DEEPPREDICT_LOG_DIR", "/var/log/deeppredict")

	assert.Equal(t, "/var/log/deeppredict", cliLoggingConfig("ask").LogDir)
	assert.Equal(t, "/var/log/deeppredict", cliLoggingConfig("chat").LogDir)
}

func TestCLILoggerWritesToConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEEPPREDICT_LOG_DIR", dir)

	logger := logging.New(cliLoggingConfig("chat"))
	logger.Info("chat session started", "server", "http://localhost:3001")
	assert.NoError(t, logger.Close())

	entries, err := filepath.Glob(filepath.Join(dir, "cli_*.log"))
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}
