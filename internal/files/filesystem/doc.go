// Package filesystem abstracts the file access needed to read survey exports
// and mapping files, so loaders can be tested against an in-memory tree.
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for tests
package filesystem
