// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/shipmk/internal/adapters/cas"
	_ "go.trai.ch/shipmk/internal/adapters/config"
	_ "go.trai.ch/shipmk/internal/adapters/fs"
	_ "go.trai.ch/shipmk/internal/adapters/logger"
	_ "go.trai.ch/shipmk/internal/adapters/shell"
	_ "go.trai.ch/shipmk/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/shipmk/internal/app"
	_ "go.trai.ch/shipmk/internal/engine/scheduler"
)
