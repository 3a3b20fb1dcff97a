// Package pkg provides the core libraries for gridmesh layout computation.
//
// # Overview
//
// Gridmesh places graph nodes on a 2D integer grid, clustering nodes that
// share group membership and keeping distinct groups separated by a spacing
// buffer, then derives a voxel-based exterior boundary mesh around each
// group. The pkg directory is organized into four main areas:
//
//  1. [graph] - Serialization types, validation, and the connectivity index
//  2. [layout] / [mesh] - The engine (grid positioning, boundary extraction)
//  3. [cache] / [store] / [config] - Infrastructure
//  4. [pipeline] - Orchestration (validate → position → mesh)
//
// # Architecture
//
// The typical data flow through gridmesh:
//
//	Graph Description (JSON)
//	         ↓
//	graph.Validate ──────── diagnostics
//	         ↓
//	layout.Place ────────── grid cells, world positions
//	         ↓
//	mesh.Build ──────────── group boundary segments
//	         ↓
//	graph.Layout (JSON) ──→ host renderer
//
// The engine is deterministic: the same graph with the same options produces
// bit-identical output, which is what makes content-hash caching in [cache]
// and [pipeline] sound.
//
// Supporting packages: [errors] for structured error codes, [observability]
// for optional instrumentation hooks, [export] for DOT/SVG debug renderings.
package pkg
