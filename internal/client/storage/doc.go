// Package storage owns the client's durable local state.
//
// The state is a single SQLite file whose schema is applied from embedded
// goose migrations on open. The only record kept is the raw credential,
// stored under common.CredentialKey in the metadata table; see
// CredentialStore.
package storage
