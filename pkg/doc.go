// Package pkg provides the libraries behind the dependents command.
//
// # Overview
//
// dependents answers "who uses this npm package, and how much?". The pkg
// directory is organized into these areas:
//
//  1. [dependents] - Domain logic (identifiers, version filter, tree builder, aggregation)
//  2. [integrations] - External API clients (npm registry, CouchDB views)
//  3. [render] - Output formats (terminal table, markdown, JSON, DOT, SVG)
//  4. [io] - Report file serialization
//  5. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The data flow for one report:
//
//	package[@version]
//	         ↓
//	    [integrations/npm] (resolve version and unpacked size)
//	         ↓
//	    [integrations/couchdb] (dependent edges + bulk downloads)
//	         ↓
//	    [dependents] Builder (filter, score, sort, recurse, accumulate)
//	         ↓
//	    [render] / [io]
//
// # Quick Start
//
//	hc := integrations.NewClient(integrations.Config{})
//	b := dependents.NewBuilder(
//	    npm.NewClient(hc, ""),
//	    couchdb.NewClient(hc, "https://couch.example/npm", ""),
//	    dependents.Options{Depth: 1, Width: 5},
//	)
//	report, err := b.Build(ctx, dependents.ParseIdentifier("left-pad@1.3.0"))
//	if err != nil {
//	    return err
//	}
//	render.Table(os.Stdout, report, render.Options{Number: 20})
package pkg
