// Package integration provides integration tests for the catalog-sync server.
// These tests run the complete server against mock upstreams and local files
// for every file based storage backend, and check the TTL driven refresh cycle.
package integration
