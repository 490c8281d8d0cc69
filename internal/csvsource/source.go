package csvsource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/vvka-141/surveyetl/internal/checksum"
	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// Identifier columns every survey export carries.
const (
	KeyColumn  = "key"
	PKeyColumn = "pkey"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// identity is decoded from every row; missing columns are rejected.
type identity struct {
	Key  string `csv:"key"`
	PKey string `csv:"pkey"`
}

// Row is one data row of a survey export.
type Row struct {
	// Line is the 1-based data row number, not counting the header.
	Line int
	Key  string
	PKey string

	record []string
	index  map[string]int
}

// Get returns the raw value of a column and whether the column exists.
func (r Row) Get(column string) (string, bool) {
	i, ok := r.index[column]
	if !ok || i >= len(r.record) {
		return "", false
	}
	return r.record[i], true
}

// Source is a lazy, single-pass reader over a survey CSV file.
// Not safe for concurrent use.
type Source struct {
	path   string
	file   io.Closer
	sum    *checksum.Reader
	dec    *csvutil.Decoder
	header []string
	index  map[string]int
	rows   int
	closed bool
}

// Open opens path and reads its header. Failures wrap surveyetl.ErrIO.
func Open(fs filesystem.FileSystemProvider, path string) (*Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, ioError(path, "open", err)
	}

	s := &Source{path: path, file: f, sum: checksum.NewReader(f)}
	if err := s.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Source) readHeader() error {
	br := bufio.NewReader(s.sum)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec, err := csvutil.NewDecoder(csv.NewReader(br))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ioError(s.path, "read header", errors.New("file is empty"))
		}
		return ioError(s.path, "read header", err)
	}
	dec.DisallowMissingColumns = true

	header := dec.Header()
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return ioError(s.path, "read header", fmt.Errorf("duplicate column %q", name))
		}
		index[name] = i
	}
	for _, required := range []string{KeyColumn, PKeyColumn} {
		if _, ok := index[required]; !ok {
			return ioError(s.path, "read header", fmt.Errorf("required column %q not found", required))
		}
	}

	s.dec = dec
	s.header = header
	s.index = index
	return nil
}

// Next returns the next row, or io.EOF once the file is exhausted.
// Malformed rows yield an error wrapping surveyetl.ErrIO.
func (s *Source) Next() (Row, error) {
	if s.closed {
		return Row{}, ioError(s.path, "read", errors.New("source is closed"))
	}

	var id identity
	if err := s.dec.Decode(&id); err != nil {
		if err == io.EOF {
			return Row{}, io.EOF
		}
		return Row{}, ioError(s.path, fmt.Sprintf("read row %d", s.rows+1), err)
	}
	s.rows++

	return Row{
		Line:   s.rows,
		Key:    id.Key,
		PKey:   id.PKey,
		record: s.dec.Record(),
		index:  s.index,
	}, nil
}

// Header returns the column names in file order.
func (s *Source) Header() []string {
	return append([]string(nil), s.header...)
}

// Path returns the file the source reads.
func (s *Source) Path() string {
	return s.path
}

// Rows returns the number of data rows read so far.
func (s *Source) Rows() int {
	return s.rows
}

// Checksum returns the SHA-256 of the bytes consumed so far. After Next has
// returned io.EOF it covers the whole file.
func (s *Source) Checksum() string {
	return s.sum.Sum()
}

// Close releases the file. It is safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

func ioError(path, op string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, path, surveyetl.ErrIO, err)
}
