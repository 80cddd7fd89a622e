// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the request and response messages of the publish service.
package schema

import (
	"github.com/google/pypub/internal/api"
	"github.com/pkg/errors"
)

// PublishRequest asks for the named repository's latest snapshot to be
// published with the named publisher's settings.
type PublishRequest struct {
	Publisher  string `form:"publisher,required"`
	Repository string `form:"repository,required"`
}

var _ api.Message = PublishRequest{}

func (req PublishRequest) Validate() error {
	if req.Publisher == "" {
		return errors.New("publisher required")
	}
	if req.Repository == "" {
		return errors.New("repository required")
	}
	return nil
}

// PublishResponse reports the committed publication.
type PublishResponse struct {
	PublicationID   string `json:"publication_id"`
	Repository      string `json:"repository"`
	SnapshotVersion int    `json:"snapshot_version"`
}

// VersionRequest asks for the service version.
type VersionRequest struct{}

var _ api.Message = VersionRequest{}

func (VersionRequest) Validate() error { return nil }

// VersionResponse reports the service version.
type VersionResponse struct {
	Version string `json:"version"`
}
