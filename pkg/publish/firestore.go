// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// publicationCollection is the Firestore collection holding publication records.
const publicationCollection = "publications"

// FirestorePublicationStore persists publication records in Firestore.
type FirestorePublicationStore struct {
	client *firestore.Client
}

// NewFirestorePublicationStore creates a store backed by the given client.
func NewFirestorePublicationStore(client *firestore.Client) *FirestorePublicationStore {
	return &FirestorePublicationStore{client: client}
}

// Commit writes the complete record in a single document creation.
//
// Create (not Set) so a duplicate publication ID fails rather than
// clobbering an existing record.
func (s *FirestorePublicationStore) Commit(ctx context.Context, rec *PublicationRecord) error {
	_, err := s.client.Collection(publicationCollection).Doc(rec.ID).Create(ctx, rec)
	if err != nil {
		return errors.Wrapf(err, "creating publication doc %q", rec.ID)
	}
	return nil
}

// Get fetches a publication record by ID.
func (s *FirestorePublicationStore) Get(ctx context.Context, id string) (*PublicationRecord, error) {
	doc, err := s.client.Collection(publicationCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.Wrapf(ErrPublicationNotFound, "id %q", id)
		}
		return nil, errors.Wrapf(err, "fetching publication doc %q", id)
	}
	var rec PublicationRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, errors.Wrap(err, "decoding publication doc")
	}
	return &rec, nil
}

// LatestForRepository returns the most recently created publication for the
// given repository, or ErrPublicationNotFound if none exists.
func (s *FirestorePublicationStore) LatestForRepository(ctx context.Context, repository string) (*PublicationRecord, error) {
	iter := s.client.Collection(publicationCollection).
		Where("repository", "==", repository).
		OrderBy("created", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.Wrapf(ErrPublicationNotFound, "repository %q", repository)
	} else if err != nil {
		return nil, errors.Wrap(err, "querying publications")
	}
	var rec PublicationRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, errors.Wrap(err, "decoding publication doc")
	}
	return &rec, nil
}

var _ PublicationStore = &FirestorePublicationStore{}
