// Package main is the entry point for the splash API server.
package main

import (
	"os"

	"github.com/overtext/splash-server/cmd/splashd/app"
	"github.com/overtext/splash-server/internal/logger"
)

func main() {
	// Logs go to stderr so stdout stays clean for commands that output
	// data (e.g., version --format json).
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
