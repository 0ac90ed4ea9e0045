package telemetry

import (
	"os"

	"go.trai.ch/shipmk/internal/adapters/telemetry/progrock"
	"go.trai.ch/shipmk/internal/core/ports"
)

// ProgressEnvVar enables the progrock progress recorder when set to "1".
const ProgressEnvVar = "SHIPMK_PROGRESS"

// NewProvider returns the telemetry implementation for this run: the
// progrock recorder when requested via the environment, the no-op otherwise.
func NewProvider() ports.Telemetry {
	if os.Getenv(ProgressEnvVar) == "1" {
		return progrock.New()
	}
	return NewNoOp()
}
