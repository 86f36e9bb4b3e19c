// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/deeppredict/deeppredict/pkg/ux"
)

// runHealthCommand reports whether the gateway and its model server are
// reachable, plus the available model names.
func runHealthCommand(cmd *cobra.Command, args []string) {
	health, err := newClient().Health(context.Background())
	if err != nil {
		cliLogger.Error("health check failed", "server", serverURL, "error", err)
		ux.Error("gateway unreachable: " + err.Error())
		os.Exit(1)
	}

	ux.Success("gateway reachable at " + serverURL)

	if !health.GatewayReachable {
		ux.Warning("model server unreachable (gateway is up, but no backend responded)")
		return
	}
	if len(health.Models) == 0 {
		ux.Warning("model server reachable but reports no models")
		return
	}
	ux.Info("available models:")
	for _, name := range health.Models {
		ux.Info("  " + string(ux.IconBullet) + " " + name)
	}
}
