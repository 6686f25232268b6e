// Package gateway is the single chokepoint through which the client talks to
// the remote library service.
//
// # Overview
//
// Gateway.Do builds a JSON request against the configured base URL and:
//  1. attaches "Authorization: Bearer <credential>" when the CredentialSource
//     holds a credential, and nothing otherwise;
//  2. tags the request with an X-Request-ID, an OpenTelemetry client span and
//     Prometheus counters;
//  3. classifies the response. 2xx bodies are returned as raw JSON. Anything
//     else becomes an *Error with a Kind.
//
// # Authentication failures
//
// A 401 response invalidates the session (which also wipes the persisted
// credential) and sends the Navigator to common.AnonymousEntryRoute before Do
// returns. The caller still receives the KindAuthentication error.
//
// # Error Handling
//
// Callers match kinds with errors.Is against ErrAuthentication, ErrValidation,
// ErrServer and ErrNetwork, or use errors.As to reach Status, Message and the
// raw Detail payload. There is no retry for any kind.
package gateway
