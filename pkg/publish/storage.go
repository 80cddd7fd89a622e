// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"crypto"
	_ "crypto/md5" // Register MD5 with the crypto package.
	stderrors "errors"
	"io"
	"io/fs"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/go-git/go-billy/v5"
	"github.com/google/pypub/internal/hashext"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// ContentStore provides access to artifact content blobs by relative path.
//
// Blob storage is shared across publications; records reference blobs, they
// do not own them.
type ContentStore interface {
	Reader(ctx context.Context, relativePath string) (io.ReadCloser, error)
	Writer(ctx context.Context, relativePath string) (io.WriteCloser, error)
}

// FilesystemContentStore stores artifact blobs in a billy.Filesystem.
type FilesystemContentStore struct {
	fs billy.Filesystem
}

// NewFilesystemContentStore creates a new FilesystemContentStore.
func NewFilesystemContentStore(fs billy.Filesystem) *FilesystemContentStore {
	return &FilesystemContentStore{fs: fs}
}

// Reader returns a reader for the blob at relativePath.
func (s *FilesystemContentStore) Reader(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	f, err := s.fs.Open(relativePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = stderrors.Join(err, ErrArtifactNotFound)
		}
		return nil, errors.Wrapf(err, "creating reader for %q", relativePath)
	}
	return f, nil
}

// Writer returns a writer for the blob at relativePath.
func (s *FilesystemContentStore) Writer(ctx context.Context, relativePath string) (io.WriteCloser, error) {
	f, err := s.fs.Create(relativePath)
	if err != nil {
		return nil, errors.Wrapf(err, "creating writer for %q", relativePath)
	}
	return f, nil
}

// Put stores content at relativePath and returns the Artifact describing
// it, with the md5 checksum computed during the write.
func (s *FilesystemContentStore) Put(ctx context.Context, relativePath string, content io.Reader) (*Artifact, error) {
	w, err := s.Writer(ctx, relativePath)
	if err != nil {
		return nil, err
	}
	defer w.Close()
	h := hashext.NewTypedHash(crypto.MD5)
	if _, err := io.Copy(io.MultiWriter(w, h), content); err != nil {
		return nil, errors.Wrapf(err, "writing %q", relativePath)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrapf(err, "closing %q", relativePath)
	}
	return &Artifact{RelativePath: relativePath, MD5: h.HexDigest()}, nil
}

var _ ContentStore = &FilesystemContentStore{}

// GCSContentStore stores artifact blobs in a GCS bucket under a prefix.
type GCSContentStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSContentStore creates a GCSContentStore for a "gs://bucket/prefix" location.
func NewGCSContentStore(ctx context.Context, location string, opts ...option.ClientOption) (*GCSContentStore, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating GCS client")
	}
	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(location, "gs://"), "/")
	return &GCSContentStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSContentStore) objectPath(relativePath string) string {
	return path.Join(s.prefix, relativePath)
}

// Reader returns a reader for the blob at relativePath.
func (s *GCSContentStore) Reader(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucket).Object(s.objectPath(relativePath))
	r, err := obj.NewReader(ctx)
	if err != nil {
		if err == gcs.ErrObjectNotExist {
			err = stderrors.Join(err, ErrArtifactNotFound)
		}
		return nil, errors.Wrapf(err, "creating GCS reader for %q", relativePath)
	}
	return r, nil
}

// Writer returns a writer for the blob at relativePath.
func (s *GCSContentStore) Writer(ctx context.Context, relativePath string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucket).Object(s.objectPath(relativePath))
	return obj.NewWriter(ctx), nil
}

var _ ContentStore = &GCSContentStore{}

// MaterializeArtifacts copies every artifact referenced by rec from the
// content store into fs at its published relative path, producing a tree a
// package-installation client can download from directly.
func MaterializeArtifacts(ctx context.Context, fs billy.Filesystem, rec *PublicationRecord, content ContentStore) error {
	for _, pa := range rec.Artifacts {
		if err := copyBlob(ctx, fs, pa, content); err != nil {
			return errors.Wrapf(err, "materializing %q", pa.RelativePath)
		}
	}
	return nil
}

func copyBlob(ctx context.Context, fs billy.Filesystem, pa PublishedArtifact, content ContentStore) error {
	r, err := content.Reader(ctx, pa.Artifact.RelativePath)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := fs.Create(pa.RelativePath)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	defer w.Close()
	if _, err := io.Copy(w, r); err != nil {
		return errors.Wrap(err, "copying blob")
	}
	return w.Close()
}
