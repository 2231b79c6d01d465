// Package file provides the file-based configuration adapter.
// Configuration is persisted as TOML under the codequery config directory
// and flattened to dot-notation keys (e.g. "index.chunk_size").
package file
