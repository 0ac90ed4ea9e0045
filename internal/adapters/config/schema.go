package config

// Shipfile represents the structure of the shipmk.yaml configuration file.
type Shipfile struct {
	Version string                `yaml:"version"`
	Vars    map[string]string     `yaml:"vars"`
	Targets map[string]*TargetDTO `yaml:"targets"`
}

// TargetDTO represents a target definition in the configuration.
type TargetDTO struct {
	Cmd         []string          `yaml:"cmd"`
	DependsOn   []string          `yaml:"dependsOn"`
	Description string            `yaml:"description"`
	Input       []string          `yaml:"input"`
	Environment map[string]string `yaml:"environment"`
	WorkingDir  string            `yaml:"workingDir"`
}
