// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package publishservice implements the publish service endpoints.
package publishservice

import (
	"context"
	"log"
	"os"

	"github.com/google/pypub/internal/api"
	"github.com/google/pypub/internal/workfs"
	"github.com/google/pypub/pkg/publish"
	"github.com/google/pypub/pkg/publish/schema"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
)

// PublishDeps are the collaborators of one publish invocation.
type PublishDeps struct {
	Snapshots    publish.SnapshotRepository
	Artifacts    publish.ArtifactStore
	Publishers   publish.PublisherStore
	Publications publish.PublicationStore
	// WorkRoot is the parent for scoped working directories. Empty means
	// workfs.DefaultRoot.
	WorkRoot string
}

// Publish resolves the publisher and the repository's latest snapshot,
// generates the Simple API metadata in a scoped working directory, and
// commits the publication. On any failure nothing is committed.
func Publish(ctx context.Context, req schema.PublishRequest, deps *PublishDeps) (*schema.PublishResponse, error) {
	publisher, err := deps.Publishers.Get(ctx, req.Publisher)
	if err != nil {
		if errors.Is(err, publish.ErrPublisherNotFound) {
			return nil, api.AsStatus(codes.NotFound, err)
		}
		return nil, api.AsStatus(codes.Internal, err)
	}
	snap, err := deps.Snapshots.Latest(ctx, req.Repository)
	if err != nil {
		if errors.Is(err, publish.ErrSnapshotNotFound) {
			return nil, api.AsStatus(codes.NotFound, err)
		}
		return nil, api.AsStatus(codes.Internal, err)
	}
	log.Printf("Publishing: repository=%s, version=%d, publisher=%s", snap.Repository, snap.Version, publisher.Name)
	id := uuid.New().String()
	fs, cleanup, err := workfs.NewScoped(deps.WorkRoot, id)
	if err != nil {
		return nil, api.AsStatus(codes.Internal, errors.Wrap(err, "creating working directory"))
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Println(errors.Wrap(err, "cleaning up working directory"))
		}
	}()
	pub := publish.Begin(id, snap, publisher, deps.Publications)
	defer pub.Rollback()
	builder := &publish.Builder{Snapshots: deps.Snapshots, Artifacts: deps.Artifacts}
	if err := builder.BuildSimpleAPI(ctx, fs, snap, pub); err != nil {
		if errors.Is(err, publish.ErrDirectoryConflict) {
			return nil, api.AsStatus(codes.FailedPrecondition, err)
		}
		return nil, api.AsStatus(codes.Internal, err)
	}
	if err := pub.Commit(ctx); err != nil {
		return nil, api.AsStatus(codes.Internal, err)
	}
	log.Printf("Publication: %s created", id)
	return &schema.PublishResponse{
		PublicationID:   id,
		Repository:      snap.Repository,
		SnapshotVersion: snap.Version,
	}, nil
}

// Version reports the running service revision.
func Version(ctx context.Context, req schema.VersionRequest, _ *api.NoDeps) (*schema.VersionResponse, error) {
	return &schema.VersionResponse{Version: os.Getenv("K_REVISION")}, nil
}
