// Package authgate decides whether a view may render given the session.
//
// Project collapses a session into one of three states and Decide maps a
// (Policy, State) pair to a Decision. Both are pure. Router adds a route
// table on top, receives navigation commands from the request gateway and
// re-resolves the current route whenever the session changes.
package authgate
