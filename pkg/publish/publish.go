// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package publish generates PyPI Simple API metadata for repository snapshots.
//
// A publish run takes an immutable Snapshot of a package repository and
// deterministically produces a static HTML tree (the root index plus one
// listing page per project) together with a Publication record mapping
// every generated file and referenced artifact to its on-disk path.
package publish

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrDirectoryConflict indicates the output root or a project directory
	// already exists. This happens either when the working area is not fresh
	// or when two distinct raw names sanitize to the same canonical name.
	ErrDirectoryConflict = errors.New("directory conflict")
	// ErrSnapshotNotFound indicates the requested repository snapshot could not be resolved.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrPublisherNotFound indicates the requested publisher configuration could not be resolved.
	ErrPublisherNotFound = errors.New("publisher not found")
	// ErrArtifactNotFound indicates the artifact content requested to be read could not be found.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrPublicationNotFound indicates the publication record could not be found.
	ErrPublicationNotFound = errors.New("publication not found")
)

// Snapshot identifies an immutable view of a repository's contents at one version.
//
// The snapshot's contents are accessed through a SnapshotRepository and must
// not be mutated for the duration of a publish.
type Snapshot struct {
	Repository string
	Version    int
}

// Package is one binary distribution record belonging to a snapshot.
//
// Names are not unique within a snapshot: multiple records may share one
// name (one per release file).
type Package struct {
	Name     string
	Filename string
}

// Artifact is a package's content blob reference plus checksum.
//
// MD5 is used for legacy index compatibility; it is the checksum scheme the
// Simple API's URL fragments carry.
type Artifact struct {
	RelativePath string `yaml:"path" firestore:"relative_path"`
	MD5          string `yaml:"md5" firestore:"md5"`
}

// Publisher is a named publish configuration.
type Publisher struct {
	Name string `yaml:"name"`
}

// SnapshotRepository provides read access to repository snapshots.
type SnapshotRepository interface {
	// Latest resolves the most recent snapshot of the named repository.
	Latest(ctx context.Context, repository string) (*Snapshot, error)
	// DistinctPackageNames returns every distinct package name in the
	// snapshot, sorted lexicographically ascending in byte order.
	DistinctPackageNames(ctx context.Context, snap *Snapshot) ([]string, error)
	// Packages returns all packages in the snapshot with the given name.
	Packages(ctx context.Context, snap *Snapshot, name string) ([]Package, error)
}

// ArtifactStore lists the artifacts associated with a package.
type ArtifactStore interface {
	Artifacts(ctx context.Context, snap *Snapshot, pkg Package) ([]Artifact, error)
}

// PublisherStore resolves publisher configurations by name.
type PublisherStore interface {
	Get(ctx context.Context, name string) (*Publisher, error)
}
