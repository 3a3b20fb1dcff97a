// Package store provides persistence for computed layouts.
//
// The HTTP API can persist a layout under a generated ID and serve it back
// later, so hosts can share or re-fetch a build without recomputing it.
// Implementations:
//   - memory: in-process storage for development and testing
//   - mongo: document storage for production deployments
//
// Stored records carry the input graph hash alongside the layout, so callers
// can detect whether a stored layout still matches their graph.
package store

import (
	"context"
	"time"

	"github.com/gridmesh/gridmesh/pkg/graph"
)

// Record is a persisted layout with its identifying metadata.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	GraphHash string       `json:"graph_hash" bson:"graph_hash"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

// LayoutStore persists layout records.
type LayoutStore interface {
	// Save stores a record under its ID, replacing any existing record.
	Save(ctx context.Context, rec Record) error

	// Get retrieves a record by ID. Returns a LAYOUT_NOT_FOUND error for
	// unknown IDs.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
