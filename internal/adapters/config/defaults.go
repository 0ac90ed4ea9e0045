package config

import "go.trai.ch/shipmk/internal/core/domain"

// DefaultFilename is the configuration file looked up in the working directory.
const DefaultFilename = "shipmk.yaml"

// DefaultTarget is the target run when none is requested.
const DefaultTarget = "all"

// BuiltinVars returns the builtin variable defaults. They sit below file
// definitions, the process environment, and --var overrides.
func BuiltinVars() map[string]string {
	return map[string]string{
		"DOCKER":     "podman",
		"IMGTAG":     "localhost:5000/simple-tool:latest",
		"IMGPATH":    ".",
		"DOCKERFILE": "Dockerfile",
	}
}

// builtinTargets returns the builtin image pipeline: build, push, and the
// all alias. A configuration file may override any of them by name.
func builtinTargets() map[string]*domain.Target {
	return map[string]*domain.Target{
		"build": {
			Name:        domain.NewInternedString("build"),
			Commands:    []string{"$(DOCKER) build -f $(DOCKERFILE) -t $(IMGTAG) $(IMGPATH)"},
			Inputs:      []domain.InternedString{domain.NewInternedString("$(DOCKERFILE)")},
			Description: "Build the container image",
		},
		"push": {
			Name:        domain.NewInternedString("push"),
			Commands:    []string{"$(DOCKER) push --tls-verify=false $(IMGTAG)"},
			Description: "Push the container image to the registry",
		},
		"all": {
			Name: domain.NewInternedString("all"),
			Prerequisites: []domain.InternedString{
				domain.NewInternedString("build"),
				domain.NewInternedString("push"),
			},
			Description: "Build then push (default)",
		},
	}
}
