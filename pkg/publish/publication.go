// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// PublishedMetadata maps a generated file's relative path to its content,
// scoped to one publication.
type PublishedMetadata struct {
	RelativePath string `firestore:"relative_path"`
	Content      []byte `firestore:"content"`
}

// PublishedArtifact maps an artifact's relative path, as it will appear
// under the published root, to the artifact, scoped to one publication.
//
// The artifact blob on disk may be shared across publications; each
// PublishedArtifact is a fresh mapping entry owned by its publication.
type PublishedArtifact struct {
	RelativePath string   `firestore:"relative_path"`
	Artifact     Artifact `firestore:"artifact"`
}

// PublicationRecord is the committed, queryable output of one publish run.
type PublicationRecord struct {
	ID              string              `firestore:"id"`
	Repository      string              `firestore:"repository"`
	SnapshotVersion int                 `firestore:"snapshot_version"`
	Publisher       string              `firestore:"publisher"`
	Created         time.Time           `firestore:"created"`
	Metadata        []PublishedMetadata `firestore:"metadata"`
	Artifacts       []PublishedArtifact `firestore:"artifacts"`
}

// PublicationStore persists committed publication records.
type PublicationStore interface {
	Commit(ctx context.Context, rec *PublicationRecord) error
	Get(ctx context.Context, id string) (*PublicationRecord, error)
}

// Publication is an open publication transaction.
//
// Registrations are buffered in memory and flushed to the store only on
// Commit, so either the complete record becomes visible or nothing does.
// Rollback discards the buffer; it is a no-op after a successful Commit.
type Publication struct {
	rec       *PublicationRecord
	store     PublicationStore
	committed bool
}

// Begin opens a publication bound to the given snapshot and publisher.
func Begin(id string, snap *Snapshot, pub *Publisher, store PublicationStore) *Publication {
	return &Publication{
		rec: &PublicationRecord{
			ID:              id,
			Repository:      snap.Repository,
			SnapshotVersion: snap.Version,
			Publisher:       pub.Name,
			Created:         time.Now().UTC(),
		},
		store: store,
	}
}

// ID returns the publication's identifier.
func (p *Publication) ID() string {
	return p.rec.ID
}

// RegisterMetadata records a generated file at the given relative path.
func (p *Publication) RegisterMetadata(relativePath string, content []byte) {
	p.rec.Metadata = append(p.rec.Metadata, PublishedMetadata{
		RelativePath: relativePath,
		Content:      content,
	})
}

// RegisterArtifact records an existing artifact at the given relative path.
func (p *Publication) RegisterArtifact(relativePath string, a Artifact) {
	p.rec.Artifacts = append(p.rec.Artifacts, PublishedArtifact{
		RelativePath: relativePath,
		Artifact:     a,
	})
}

// Commit flushes the buffered record to the store and seals the publication.
func (p *Publication) Commit(ctx context.Context) error {
	if p.committed {
		return errors.New("publication already committed")
	}
	if err := p.store.Commit(ctx, p.rec); err != nil {
		return errors.Wrap(err, "committing publication")
	}
	p.committed = true
	return nil
}

// Rollback discards the buffered record unless the publication was committed.
func (p *Publication) Rollback() {
	if p.committed {
		return
	}
	p.rec.Metadata = nil
	p.rec.Artifacts = nil
}

// MemoryPublicationStore is an in-memory PublicationStore.
type MemoryPublicationStore struct {
	mu   sync.Mutex
	recs map[string]*PublicationRecord
}

// NewMemoryPublicationStore creates a new MemoryPublicationStore.
func NewMemoryPublicationStore() *MemoryPublicationStore {
	return &MemoryPublicationStore{recs: make(map[string]*PublicationRecord)}
}

func (s *MemoryPublicationStore) Commit(ctx context.Context, rec *PublicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.recs[rec.ID] = &cp
	return nil
}

func (s *MemoryPublicationStore) Get(ctx context.Context, id string) (*PublicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, errors.Wrapf(ErrPublicationNotFound, "id %q", id)
	}
	cp := *rec
	return &cp, nil
}

// Len reports the number of committed records.
func (s *MemoryPublicationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

var _ PublicationStore = &MemoryPublicationStore{}
