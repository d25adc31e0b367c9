// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/unitstat/internal/adapters/config"
	_ "go.trai.ch/unitstat/internal/adapters/daemon"
	_ "go.trai.ch/unitstat/internal/adapters/export"
	_ "go.trai.ch/unitstat/internal/adapters/loadhook"
	_ "go.trai.ch/unitstat/internal/adapters/logger"
	_ "go.trai.ch/unitstat/internal/adapters/publisher"
	_ "go.trai.ch/unitstat/internal/adapters/telemetry"
	_ "go.trai.ch/unitstat/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/unitstat/internal/app"
)
