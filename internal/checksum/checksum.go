package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Reader hashes everything read through it.
// Not safe for concurrent use.
type Reader struct {
	r io.Reader
	h hash.Hash
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	h := sha256.New()
	return &Reader{r: io.TeeReader(r, h), h: h}
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

// Sum returns the hex-encoded SHA-256 of the bytes read so far.
func (r *Reader) Sum() string {
	return hex.EncodeToString(r.h.Sum(nil))
}
