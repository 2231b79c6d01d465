// Package connectors holds the document sources the indexer can read.
// The filesystem connector is the only source today; the package split
// leaves room for remote sources without touching the core.
package connectors
