package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Encoder is implemented by Position and Attitude.
type Encoder interface {
	Encode() []byte
}

// WriteRecords writes records back to back to w.
func WriteRecords[T Encoder](w io.Writer, records []T) error {
	for i, r := range records {
		if _, err := w.Write(r.Encode()); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile writes records to path, zstd-compressed when path ends in .zst.
func WriteFile[T Encoder](path string, records []T) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if !strings.HasSuffix(path, ".zst") {
		if err := WriteRecords(bw, records); err != nil {
			return err
		}
		return bw.Flush()
	}

	enc, err := zstd.NewWriter(bw)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := WriteRecords(enc, records); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing zstd stream: %w", err)
	}
	return bw.Flush()
}
