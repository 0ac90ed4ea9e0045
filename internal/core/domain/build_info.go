package domain

import "time"

// BuildInfo records the last successful run of a target.
type BuildInfo struct {
	TargetName string        `json:"target_name,omitzero"`
	InputHash  string        `json:"input_hash,omitzero"`
	Duration   time.Duration `json:"duration,omitzero"`
	Timestamp  time.Time     `json:"timestamp,omitzero"`
}
