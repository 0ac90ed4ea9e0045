// Package fs provides filesystem-backed hashing for change detection.
package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for targets and files.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash computes a single hash over the target definition, its
// expanded commands and environment, and the content of its declared input
// files. Directories are walked in lexical order so the hash is
// deterministic.
func (h *Hasher) ComputeInputHash(target *domain.Target, root string) (string, error) {
	hasher := xxhash.New()

	hashTargetDefinition(target, hasher)

	for _, input := range target.Inputs {
		path := input.String()
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if err := h.hashPath(path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashTargetDefinition hashes the target's name, commands, prerequisites,
// and environment.
func hashTargetDefinition(target *domain.Target, hasher *xxhash.Digest) {
	sep := []byte{0}

	_, _ = hasher.WriteString(target.Name.String())
	_, _ = hasher.Write(sep)

	for _, cmd := range target.Commands {
		_, _ = hasher.WriteString(cmd)
		_, _ = hasher.Write(sep)
	}
	_, _ = hasher.Write(sep)

	for _, pre := range target.Prerequisites {
		_, _ = hasher.WriteString(pre.String())
		_, _ = hasher.Write(sep)
	}
	_, _ = hasher.Write(sep)

	keys := make([]string, 0, len(target.Environment))
	for k := range target.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = hasher.WriteString(k + "=" + target.Environment[k])
		_, _ = hasher.Write(sep)
	}
	_, _ = hasher.Write(sep)
}

// hashPath hashes a single file, or every regular file under a directory.
func (h *Hasher) hashPath(path string, hasher *xxhash.Digest) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat input"), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(path, hasher)
	}

	return filepath.WalkDir(path, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to walk input directory"), "path", p)
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		return h.hashFile(p, hasher)
	})
}

func (h *Hasher) hashFile(path string, hasher *xxhash.Digest) error {
	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	_, _ = hasher.WriteString(path)
	_, _ = hasher.Write([]byte{0})

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	_, _ = hasher.Write(buf[:])
	return nil
}
