// Package ingest implements the four ingestion pipelines of spec §4.4:
// tabular (TSV with schema inference), VCF (population allele counts and
// structural variants), JSONL (clinical curations), and GFF (functional
// elements). It shares one gzip-detecting reader convention and one
// atomic temp-file pattern across all four.
package ingest

import (
	"fmt"
	"os"
)

// WriteFileAtomic writes data to a temp file beside path and renames it
// into place, so a reader never observes a partially written file.
// Grounded on cmd/vibe-vep/download.go's downloadFile: write to
// "<path>.tmp", then os.Rename, removing the temp file on any failure.
func WriteFileAtomic(path string, write func(f *os.File) error) (err error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err = write(f); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// TempFile creates a new temp file in dir (or the system default if dir
// is "") and returns it along with a cleanup func that removes it; used
// by the external merge-sort stage (mergesort.go) to guarantee temp
// files are deleted on scope exit whether the caller succeeds or fails,
// the same guarantee WriteFileAtomic gives single-file downloads.
func TempFile(dir, pattern string) (*os.File, func(), error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() {
		f.Close()
		os.Remove(f.Name())
	}
	return f, cleanup, nil
}
