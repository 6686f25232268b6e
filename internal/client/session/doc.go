// Package session owns the client's authentication state.
//
// Store holds the current Session as an immutable snapshot. It is the only
// writer of credential state, both in memory and in the persisted
// CredentialStore, and it implements gateway.CredentialSource so that the
// request gateway can read the credential and invalidate it on a 401.
//
// Manager layers the remote operations on top of a Store: Login, Register,
// ResolveCurrentUser and Logout.
package session
