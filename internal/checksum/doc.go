// Package checksum fingerprints survey source files with SHA-256.
//
// The digest of every CSV file is recorded with its load run, so a reload of
// an unchanged export can be recognised in the load log.
//
// # Example Usage
//
//	r := checksum.NewReader(file)
//	consume(r)
//	digest := r.Sum()
package checksum
