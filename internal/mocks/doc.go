// Package mocks provides shared mock implementations of the store, auth,
// and broadcast interfaces for testing. Each mock supports per-method
// function fields for custom behavior, falling back to simple in-memory
// defaults when those are unset.
package mocks
