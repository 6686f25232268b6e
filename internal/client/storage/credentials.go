package storage

import (
	"context"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/biblio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/biblio/internal/common"
)

// CredentialStore persists the raw credential between process starts.
// Load returns "" when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}

// MetadataCredentialStore keeps the credential in the metadata table.
type MetadataCredentialStore struct {
	repo metadata.Repository
}

func NewMetadataCredentialStore(repo metadata.Repository) *MetadataCredentialStore {
	return &MetadataCredentialStore{repo: repo}
}

func (s *MetadataCredentialStore) errorf() oops.OopsErrorBuilder {
	return oops.In("storage").Code("CREDENTIAL_STORE").With("key", common.CredentialKey)
}

func (s *MetadataCredentialStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.CredentialKey)
	if err != nil {
		return "", s.errorf().Wrapf(err, "load credential")
	}
	return string(v), nil
}

func (s *MetadataCredentialStore) Save(ctx context.Context, credential string) error {
	if credential == "" {
		return s.Clear(ctx)
	}
	if err := s.repo.Set(ctx, common.CredentialKey, []byte(credential)); err != nil {
		return s.errorf().Wrapf(err, "save credential")
	}
	return nil
}

func (s *MetadataCredentialStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.CredentialKey); err != nil {
		return s.errorf().Wrapf(err, "clear credential")
	}
	return nil
}
