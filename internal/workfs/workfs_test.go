// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package workfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/util"
)

func TestNewScoped(t *testing.T) {
	root := t.TempDir()
	fs, cleanup, err := NewScoped(root, "run-1")
	if err != nil {
		t.Fatalf("NewScoped() error = %v", err)
	}
	if err := util.WriteFile(fs, "simple/index.html", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	onDisk := filepath.Join(root, "work", "run-1", "simple", "index.html")
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("scoped write not visible at %s: %v", onDisk, err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "work", "run-1")); !os.IsNotExist(err) {
		t.Errorf("working directory still present after cleanup: %v", err)
	}
}

func TestNewScopedIsolation(t *testing.T) {
	root := t.TempDir()
	fs1, cleanup1, err := NewScoped(root, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup1()
	fs2, cleanup2, err := NewScoped(root, "run-2")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup2()
	if err := util.WriteFile(fs1, "f", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs2.Stat("f"); !os.IsNotExist(err) {
		t.Errorf("run-2 sees run-1's file: %v", err)
	}
}
