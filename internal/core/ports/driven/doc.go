// Package driven defines the interfaces that core services call OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and adapters implement them.
//
//   - EmbeddingService: turns text into fixed-dimensionality vectors
//   - VectorBackend: persists embedded chunks and serves similarity search
//   - AnswerService: generates a grounded answer from retrieved chunks
//   - ConfigStore: application configuration
//
// The same EmbeddingService instance must be used to build and to query a
// given collection; the backend does not detect a model mismatch until a
// vector-space operation fails.
//
// Import rules: this package may import domain only, never an adapter.
package driven
