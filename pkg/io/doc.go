// Package io provides JSON import and export for workspace graphs.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "/repo/packages/app", "name": "app", "version": "1.0.0"},
//	    {"id": "/repo/packages/lib", "name": "lib", "version": "2.1.0"}
//	  ],
//	  "edges": [
//	    {"from": "/repo/packages/app", "to": "/repo/packages/lib", "kind": "prod"}
//	  ]
//	}
//
// Node IDs are project directories. Edge kinds are "prod", "optional",
// "dev" and "peer".
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. The stackscope graph command uses WriteJSON for its default
// output format.
//
// # Import
//
// Use [ImportJSON] or [ReadJSON] to load an exported graph, for example to
// sequence a selection computed earlier:
//
//	g, err := io.ImportJSON("selected.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := sequence.Sequence(g, nil, dag.AllKinds)
package io
