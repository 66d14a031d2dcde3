// Package io reads component manifests and writes plans.
//
// # Manifest Format
//
// A manifest declares components and the dependencies between them. The
// same structure is accepted as JSON, TOML or YAML:
//
//	{
//	  "components": [
//	    {"id": "db", "duration": 5, "stop_duration": 2},
//	    {"id": "cache"},
//	    {"id": "api", "duration": 2, "meta": {"team": "web"}}
//	  ],
//	  "dependencies": [
//	    {"requirement": "db", "component": "api"},
//	    {"requirement": "cache", "component": "api"}
//	  ]
//	}
//
// A dependency reads "requirement must be up before component starts".
// The keys "required" and "component_name" are accepted as aliases for
// "requirement" and "component".
//
// # Component Fields
//
// Required:
//   - id: unique, non-empty identifier
//
// Optional:
//   - duration: startup duration (default 1)
//   - stop_duration: shutdown duration (defaults to duration)
//   - meta: freeform object carried through to results
//
// # Import
//
// Use [ImportFile] to read a manifest from disk; the format is chosen by
// extension. [ReadJSON], [ReadTOML] and [ReadYAML] read from any io.Reader.
// [Manifest.Build] turns a manifest into a [dag.Graph], reporting the first
// invalid component or dependency.
//
// # Export
//
// [WriteManifestJSON] writes a manifest back out, and [FromGraph] recovers a
// manifest from a graph, so import, repair and export round-trip.
// [WriteResultJSON] writes any computed result as indented JSON.
package io
