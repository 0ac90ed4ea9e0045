package ports

import "go.trai.ch/shipmk/internal/core/domain"

// Hasher computes content hashes for change detection.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash computes a single hash over the target definition,
	// its expanded commands, and its declared input files, resolved
	// relative to root.
	ComputeInputHash(target *domain.Target, root string) (string, error)

	// ComputeFileHash computes the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)
}
