package ingest

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// openMaybeGzip opens path (or reads stdin if path is "-") and transparently
// decompresses it if it starts with the gzip magic bytes, the way
// vcf.Parser.NewParser auto-detects .vcf.gz inputs. The returned closer
// must always be invoked; it closes both the gzip reader (if any) and the
// underlying file.
func openMaybeGzip(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return bufio.NewReader(os.Stdin), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	magic := make([]byte, 2)
	n, _ := f.Read(magic)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("seek %s: %w", path, err)
	}

	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open gzip reader for %s: %w", path, err)
		}
		return bufio.NewReader(gz), func() error {
			gzErr := gz.Close()
			fErr := f.Close()
			if gzErr != nil {
				return gzErr
			}
			return fErr
		}, nil
	}

	return bufio.NewReader(f), f.Close, nil
}
