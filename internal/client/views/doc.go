// Package views holds the screen controllers: Login, Signup, Home and
// Dashboard. Each controller owns its display state behind its own mutex and
// talks to the service only through the narrow interfaces declared here.
//
// Controllers follow the caller-level error policy: form submissions keep
// the service message for inline display, mutations report through a
// Notifier, and background fetches log and keep what they already had.
// Results that arrive after the activation context is cancelled are dropped.
package views
