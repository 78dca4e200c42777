// Package store defines the persistence interfaces consumed by the service
// layer, along with the shared error taxonomy all implementations map onto.
package store
