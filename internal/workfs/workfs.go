// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package workfs manages scoped working directories for publish runs.
//
// Each publish invocation gets its own directory under a shared root so
// that concurrent runs never share mutable filesystem state. The cleanup
// function removes the directory on every exit path.
package workfs

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
)

// DefaultRoot is the shared parent for scoped working directories.
const DefaultRoot = "/tmp/pypub/"

// NewScoped creates a working directory for the given run under root and
// returns a filesystem chrooted into it along with a cleanup function.
func NewScoped(root, runID string) (billy.Filesystem, func() error, error) {
	if root == "" {
		root = DefaultRoot
	}
	dir := filepath.Join(root, "work", runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, errors.Wrapf(err, "creating directory %s", dir)
	}
	fs, err := osfs.New("/").Chroot(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "chroot into directory %s", dir)
	}
	cleanup := func() error {
		return os.RemoveAll(dir)
	}
	return fs, cleanup, nil
}
