package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Source walks a bounded byte range in fixed-size records and starts over
// from the beginning when a read comes back short or empty.
type Source struct {
	mu         sync.Mutex
	r          io.ReaderAt
	size       int64
	recordSize int
	offset     int64
	closer     io.Closer
}

// NewSource wraps r, which holds size bytes of recordSize-byte records.
func NewSource(r io.ReaderAt, size int64, recordSize int) (*Source, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("record size must be positive, got %d", recordSize)
	}
	if size < int64(recordSize) {
		return nil, fmt.Errorf("source holds %d bytes, less than one %d-byte record", size, recordSize)
	}
	return &Source{r: r, size: size, recordSize: recordSize}, nil
}

// NewBytesSource serves records from an in-memory buffer.
func NewBytesSource(data []byte, recordSize int) (*Source, error) {
	return NewSource(bytes.NewReader(data), int64(len(data)), recordSize)
}

// Open opens a replay file. Files ending in .zst are decompressed into memory
// first; anything else is read in place.
func Open(path string, recordSize int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}

	if strings.HasSuffix(path, ".zst") {
		defer f.Close()
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader for %s: %w", path, err)
		}
		defer dec.Close()

		data, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		return NewBytesSource(data, recordSize)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	src, err := NewSource(f, info.Size(), recordSize)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.closer = f
	return src, nil
}

// Next returns the next record. A short or empty read rewinds the cursor and
// returns the first record instead, so callers never see end-of-data.
func (s *Source) Next() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, s.recordSize)
	n, err := s.r.ReadAt(buf, s.offset)
	if n == s.recordSize {
		s.offset += int64(n)
		return buf, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading record at %d: %w", s.offset, err)
	}

	n, err = s.r.ReadAt(buf, 0)
	if n < s.recordSize {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading first record: %w", err)
	}
	s.offset = int64(n)
	return buf, nil
}

// Progress is the share of the source consumed so far, in percent.
func (s *Source) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.offset) / float64(s.size) * 100.0
}

// Size is the number of bytes in the source.
func (s *Source) Size() int64 {
	return s.size
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
