// Package sources provides the remote listing sources a category is refreshed from.
//
// Every category is bound to exactly one RemoteSource by the SourceFactory:
//   - apiSource issues a GET against an HTTP JSON endpoint through the retrying
//     client in internal/httpclient, optionally with query parameters and a
//     bearer token
//   - fileSource reads a JSON document from the local filesystem
//
// Both locate the item array with a gjson path (default "results") and report
// whether the path was present at all, so callers can tell an empty listing
// from a payload that carried none.
package sources
