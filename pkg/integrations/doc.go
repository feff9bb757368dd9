// Package integrations provides the HTTP plumbing shared by the data source
// clients.
//
// # Overview
//
// dependents talks to two services, each with its own subpackage:
//
//   - [npm]: the package registry, for resolving package metadata
//   - [couchdb]: the dependency-graph view server, for dependents and
//     download counts
//
// # Shared Infrastructure
//
// [Client] wraps net/http with the behavior both data sources need:
//
//   - JSON GET and POST helpers
//   - Optional HTTP basic auth and default headers
//   - A bound on simultaneous requests (see [Config.Concurrency]) so wide
//     recursive reports do not open an unbounded number of connections
//   - Status mapping to [ErrNotFound], [ErrUnauthorized] and [ErrNetwork]
//   - Request events reported to [observability.HTTP]
//
// Requests are never cached and never retried: a failure is returned to the
// caller, which decides whether it is fatal.
//
// [npm]: github.com/matzehuels/dependents/pkg/integrations/npm
// [couchdb]: github.com/matzehuels/dependents/pkg/integrations/couchdb
// [observability.HTTP]: github.com/matzehuels/dependents/pkg/observability.HTTP
package integrations
