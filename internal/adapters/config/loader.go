// Package config provides the configuration loader for shipmk.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileConfigLoader implements ports.ConfigLoader using an optional YAML file
// layered over the builtin image pipeline.
type FileConfigLoader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a FileConfigLoader reading DefaultFilename.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Filename: DefaultFilename, logger: logger}
}

// Load reads the configuration from the given working directory.
// A missing configuration file is not an error: the builtin pipeline alone
// is returned.
func (l *FileConfigLoader) Load(cwd string) (*domain.Manifest, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return buildManifest(nil)
		}
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var shipfile Shipfile
	if err := yaml.Unmarshal(data, &shipfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	return buildManifest(&shipfile)
}

// buildManifest merges the file definitions over the builtin pipeline and
// validates the resulting graph. File targets replace builtin targets of the
// same name wholesale.
func buildManifest(shipfile *Shipfile) (*domain.Manifest, error) {
	targets := builtinTargets()
	vars := BuiltinVars()

	if shipfile != nil {
		for name, value := range shipfile.Vars {
			vars[name] = value
		}
		for name, dto := range shipfile.Targets {
			if !validTargetName(name) {
				return nil, zerr.With(zerr.New("invalid target name"), "target", name)
			}
			if dto == nil {
				return nil, zerr.With(zerr.New("empty target definition"), "target", name)
			}
			targets[name] = &domain.Target{
				Name:          domain.NewInternedString(name),
				Commands:      dto.Cmd,
				Prerequisites: internStrings(dto.DependsOn),
				Description:   dto.Description,
				Inputs:        canonicalizeStrings(dto.Input),
				Environment:   dto.Environment,
				WorkingDir:    domain.NewInternedString(dto.WorkingDir),
			}
		}
	}

	g := domain.NewGraph()
	for _, target := range targets {
		if err := g.AddTarget(target); err != nil {
			return nil, err
		}
	}

	// Catches missing prerequisites and cycles before anything runs.
	if err := g.Validate(); err != nil {
		return nil, err
	}

	return &domain.Manifest{Vars: vars, Graph: g}, nil
}

// validTargetName rejects names that cannot be requested from the command
// line or referenced from a prerequisite list.
func validTargetName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	return !strings.ContainsAny(name, " \t\n")
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}

// canonicalizeStrings sorts, deduplicates, and interns paths so that input
// hashing is independent of declaration order.
func canonicalizeStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}

	sorted := make([]string, len(strs))
	copy(sorted, strs)
	slices.Sort(sorted)

	unique := slices.Compact(sorted)
	res := make([]domain.InternedString, len(unique))
	for i, s := range unique {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
