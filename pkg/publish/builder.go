// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"os"
	"path"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/pypub/pkg/publish/simple"
	"github.com/pkg/errors"
)

// simpleRoot is the directory under which all Simple API metadata is written.
const simpleRoot = "simple"

// Builder drives one end-to-end publish for a bound snapshot.
type Builder struct {
	Snapshots SnapshotRepository
	Artifacts ArtifactStore
}

// BuildSimpleAPI writes the Simple API metadata tree for snap under fs and
// registers every generated file and referenced artifact on pub.
//
// Any error aborts the whole build; the caller owns rolling back pub and
// discarding the working area. Nothing is committed here.
func (b *Builder) BuildSimpleAPI(ctx context.Context, fs billy.Filesystem, snap *Snapshot, pub *Publication) error {
	if err := mkdirFresh(fs, simpleRoot); err != nil {
		return err
	}
	names, err := b.Snapshots.DistinctPackageNames(ctx, snap)
	if err != nil {
		return errors.Wrap(err, "listing distinct package names")
	}
	// Byte-order sort fixes the index's iteration order for reproducible
	// output, independent of the repository's own ordering.
	names = slices.Clone(names)
	slices.Sort(names)
	projects := make([]simple.Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, simple.Project{Name: name, Canonical: simple.Sanitize(name)})
	}
	indexPath := path.Join(simpleRoot, "index.html")
	index := []byte(simple.RenderIndex(projects))
	if err := util.WriteFile(fs, indexPath, index, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", indexPath)
	}
	pub.RegisterMetadata(indexPath, index)
	for _, p := range projects {
		if err := b.buildProject(ctx, fs, snap, pub, p); err != nil {
			return errors.Wrapf(err, "building project %q", p.Name)
		}
	}
	return nil
}

func (b *Builder) buildProject(ctx context.Context, fs billy.Filesystem, snap *Snapshot, pub *Publication, p simple.Project) error {
	projectDir := path.Join(simpleRoot, p.Canonical)
	// A conflict here means an earlier, differently-spelled name already
	// claimed this canonical directory. Hard stop rather than silent merge.
	if err := mkdirFresh(fs, projectDir); err != nil {
		return err
	}
	pkgs, err := b.Snapshots.Packages(ctx, snap, p.Name)
	if err != nil {
		return errors.Wrap(err, "listing packages")
	}
	var links []simple.PackageLink
	for _, pkg := range pkgs {
		artifacts, err := b.Artifacts.Artifacts(ctx, snap, pkg)
		if err != nil {
			return errors.Wrapf(err, "listing artifacts for %q", pkg.Filename)
		}
		for _, a := range artifacts {
			pub.RegisterArtifact(a.RelativePath, a)
			links = append(links, simple.PackageLink{
				Filename: pkg.Filename,
				// Two levels up, from the project subdirectory back to the
				// root where the artifact will ultimately be served from.
				Href: "../../" + pkg.Filename,
				MD5:  a.MD5,
			})
		}
	}
	detailPath := path.Join(projectDir, "index.html")
	detail := []byte(simple.RenderDetail(p.Name, links))
	if err := util.WriteFile(fs, detailPath, detail, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", detailPath)
	}
	pub.RegisterMetadata(detailPath, detail)
	return nil
}

// mkdirFresh creates dir, failing with ErrDirectoryConflict if it exists.
//
// billy's MkdirAll succeeds on existing directories, so freshness is
// checked explicitly first.
func mkdirFresh(fs billy.Filesystem, dir string) error {
	if _, err := fs.Stat(dir); err == nil {
		return errors.Wrapf(ErrDirectoryConflict, "directory %q already exists", dir)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %q", dir)
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %q", dir)
	}
	return nil
}
