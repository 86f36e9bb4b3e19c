// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deeppredict/deeppredict/pkg/conversation"
	"github.com/deeppredict/deeppredict/pkg/ux"
)

// runAskCommand sends a single question and prints the reply. When the
// reply carries a structured recommendation it is rendered as a card;
// otherwise the raw text is printed.
func runAskCommand(cmd *cobra.Command, args []string) {
	question := strings.Join(args, " ")

	reply, err := newClient().SendChat(context.Background(), question)
	if err != nil {
		cliLogger.Error("chat request failed", "error", err)
		ux.Error(err.Error())
		os.Exit(1)
	}

	if rec, err := conversation.ExtractStructured(reply); err == nil {
		fmt.Println(ux.RenderRecommendation(rec))
		return
	}
	fmt.Println(reply)
}
