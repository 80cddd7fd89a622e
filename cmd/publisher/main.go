// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// The publisher binary serves the publish service on a local port.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	git "github.com/go-git/go-git/v5"
	"github.com/google/pypub/internal/api"
	"github.com/google/pypub/internal/publishservice"
	"github.com/google/pypub/pkg/publish"
	"github.com/pkg/errors"
)

var (
	port         = flag.Int("port", 8080, "port on which to serve")
	project      = flag.String("project", "", "GCP project for Firestore publication records (empty uses an in-memory store)")
	manifestsDir = flag.String("manifests-dir", "", "directory containing snapshot manifests and publisher configs")
	manifestsGit = flag.String("manifests-git", "", "Git URL of a repository containing snapshot manifests and publisher configs")
	manifestsRel = flag.String("manifests-rel", "", "path of the manifests within the -manifests-git repository")
	workRoot     = flag.String("work-root", "", "parent directory for scoped publish working directories")
)

// memStore is shared across requests when no Firestore project is set.
var memStore = publish.NewMemoryPublicationStore()

func manifestFS() (billy.Filesystem, error) {
	switch {
	case *manifestsDir != "":
		return osfs.New(*manifestsDir), nil
	case *manifestsGit != "":
		return publish.CloneManifestFS(&publish.GitManifestOptions{
			CloneOptions: git.CloneOptions{URL: *manifestsGit},
			RelativePath: *manifestsRel,
		})
	default:
		return nil, errors.New("one of -manifests-dir or -manifests-git is required")
	}
}

func initDeps(ctx context.Context) (*publishservice.PublishDeps, error) {
	fs, err := manifestFS()
	if err != nil {
		return nil, err
	}
	repo := publish.NewFilesystemSnapshotRepository(fs)
	var store publish.PublicationStore
	if *project != "" {
		client, err := firestore.NewClient(ctx, *project)
		if err != nil {
			return nil, errors.Wrap(err, "creating Firestore client")
		}
		store = publish.NewFirestorePublicationStore(client)
	} else {
		store = memStore
	}
	return &publishservice.PublishDeps{
		Snapshots:    repo,
		Artifacts:    repo,
		Publishers:   publish.NewFilesystemPublisherStore(fs),
		Publications: store,
		WorkRoot:     *workRoot,
	}, nil
}

func main() {
	flag.Parse()
	http.HandleFunc("/publish", api.Handler(initDeps, publishservice.Publish))
	http.HandleFunc("/version", api.Handler(api.NoDepsInit, publishservice.Version))
	log.Printf("Server listening on port %d", *port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), nil); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
