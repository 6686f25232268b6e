// Package api exposes the library service's REST operations as typed Go
// methods. Every call goes through a gateway.Doer, so credential attachment
// and authentication-failure handling never appear here.
package api
