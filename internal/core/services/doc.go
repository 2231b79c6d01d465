// Package services implements the core pipeline behind the driving ports:
// index builds (load, chunk, embed, persist), similarity search, grounded
// question answering and collection administration.
//
// Services in this package are synchronous and single-threaded by design.
// The persisted collection is the only durable shared resource and assumes
// single-writer, single-reader-at-a-time access per collection name; two
// concurrent builds of the same collection produce undefined results.
package services
