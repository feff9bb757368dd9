// Package couchdb queries the CouchDB view server that indexes npm
// dependency edges and download counts.
//
// # Views
//
// All views live in one design document (DefaultDesign unless configured):
//
//   - dependents2: keyed by dependency name; each row's value is the
//     dependent, either as [name, range] or {"name": ..., "version": ...}
//   - dev-dependencies: keyed by dev-dependency name; values are bare
//     dependent names without a range
//   - downloads: keyed by package name; values are download counts
//
// Dependent queries use an exact key match. Download counts are fetched in a
// single POST carrying every name in "keys"; names the view does not know
// produce no row.
//
// # Authentication
//
// Credentials are configured on the underlying [integrations.Client]. A 401
// or 403 from the server is returned as an UNAUTHORIZED error so the CLI can
// suggest passing credentials.
//
// [integrations.Client]: github.com/matzehuels/dependents/pkg/integrations.Client
package couchdb
