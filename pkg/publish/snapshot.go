// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// snapshotManifest is the YAML document describing one repository version.
//
// Layout on disk: snapshots/<repository>/<version>.yaml
type snapshotManifest struct {
	Repository string            `yaml:"repository"`
	Version    int               `yaml:"version"`
	Packages   []manifestPackage `yaml:"packages"`
}

type manifestPackage struct {
	Name      string     `yaml:"name"`
	Filename  string     `yaml:"filename"`
	Artifacts []Artifact `yaml:"artifacts"`
}

// FilesystemSnapshotRepository reads snapshot manifests from a filesystem.
//
// It implements both SnapshotRepository and ArtifactStore since the
// manifests carry artifact checksums alongside the package listing.
type FilesystemSnapshotRepository struct {
	fs billy.Filesystem
}

// NewFilesystemSnapshotRepository creates a snapshot repository over fs.
func NewFilesystemSnapshotRepository(fs billy.Filesystem) *FilesystemSnapshotRepository {
	return &FilesystemSnapshotRepository{fs: fs}
}

func (r *FilesystemSnapshotRepository) manifestPath(snap *Snapshot) string {
	return path.Join("snapshots", snap.Repository, strconv.Itoa(snap.Version)+".yaml")
}

func (r *FilesystemSnapshotRepository) load(snap *Snapshot) (*snapshotManifest, error) {
	f, err := r.fs.Open(r.manifestPath(snap))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrSnapshotNotFound, "repository %q version %d", snap.Repository, snap.Version)
		}
		return nil, errors.Wrap(err, "opening snapshot manifest")
	}
	defer f.Close()
	var m snapshotManifest
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "parsing snapshot manifest")
	}
	return &m, nil
}

// Latest resolves the highest-versioned snapshot of the named repository.
func (r *FilesystemSnapshotRepository) Latest(ctx context.Context, repository string) (*Snapshot, error) {
	entries, err := r.fs.ReadDir(path.Join("snapshots", repository))
	if err != nil {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "repository %q", repository)
	}
	latest := -1
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".yaml")
		if !ok || e.IsDir() {
			continue
		}
		v, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		if v > latest {
			latest = v
		}
	}
	if latest < 0 {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "repository %q has no versions", repository)
	}
	return &Snapshot{Repository: repository, Version: latest}, nil
}

// DistinctPackageNames returns the snapshot's package names, deduplicated
// and sorted ascending in byte order.
func (r *FilesystemSnapshotRepository) DistinctPackageNames(ctx context.Context, snap *Snapshot) ([]string, error) {
	m, err := r.load(snap)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, p := range m.Packages {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Packages returns all package records in the snapshot with the given name,
// in manifest order.
func (r *FilesystemSnapshotRepository) Packages(ctx context.Context, snap *Snapshot, name string) ([]Package, error) {
	m, err := r.load(snap)
	if err != nil {
		return nil, err
	}
	var pkgs []Package
	for _, p := range m.Packages {
		if p.Name == name {
			pkgs = append(pkgs, Package{Name: p.Name, Filename: p.Filename})
		}
	}
	return pkgs, nil
}

// Artifacts returns the artifacts recorded for pkg in the snapshot manifest.
func (r *FilesystemSnapshotRepository) Artifacts(ctx context.Context, snap *Snapshot, pkg Package) ([]Artifact, error) {
	m, err := r.load(snap)
	if err != nil {
		return nil, err
	}
	for _, p := range m.Packages {
		if p.Name == pkg.Name && p.Filename == pkg.Filename {
			return p.Artifacts, nil
		}
	}
	return nil, nil
}

var (
	_ SnapshotRepository = &FilesystemSnapshotRepository{}
	_ ArtifactStore      = &FilesystemSnapshotRepository{}
)

// GitManifestOptions configures cloning a manifests repository.
type GitManifestOptions struct {
	git.CloneOptions
	RelativePath string
}

// CloneManifestFS clones a Git repository of snapshot manifests and
// publisher configs into memory and returns the checked-out tree. An empty
// ReferenceName clones the remote's default branch.
func CloneManifestFS(opts *GitManifestOptions) (billy.Filesystem, error) {
	mfs := memfs.New()
	if _, err := git.Clone(memory.NewStorage(), mfs, &opts.CloneOptions); err != nil {
		return nil, errors.Wrap(err, "cloning repository")
	}
	if opts.RelativePath == "" {
		return mfs, nil
	}
	manifestFS, err := mfs.Chroot(opts.RelativePath)
	if err != nil {
		return nil, errors.Wrap(err, "making relative path")
	}
	return manifestFS, nil
}

// FilesystemPublisherStore resolves publisher configurations from YAML
// documents at publishers/<name>.yaml.
type FilesystemPublisherStore struct {
	fs billy.Filesystem
}

// NewFilesystemPublisherStore creates a publisher store over fs.
func NewFilesystemPublisherStore(fs billy.Filesystem) *FilesystemPublisherStore {
	return &FilesystemPublisherStore{fs: fs}
}

func (s *FilesystemPublisherStore) Get(ctx context.Context, name string) (*Publisher, error) {
	f, err := s.fs.Open(path.Join("publishers", name+".yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrPublisherNotFound, "publisher %q", name)
		}
		return nil, errors.Wrap(err, "opening publisher config")
	}
	defer f.Close()
	var p Publisher
	if err := yaml.NewDecoder(f).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "parsing publisher config")
	}
	if p.Name == "" {
		p.Name = name
	}
	return &p, nil
}

var _ PublisherStore = &FilesystemPublisherStore{}
