package ingest

import (
	"bufio"
	"container/heap"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/genomedb/genomedb/internal/errs"
)

// sortJSONLByAccession implements spec §4.4.3's external merge-sort stage:
// "records are partitioned into temp files of bounded size, each temp
// file is in-memory sorted, then a k-way merge streams into the store."
// It returns the path to a single sorted temp file and a cleanup func
// that removes every temp file it created (the runs and the merged
// output), guaranteed on both the success and failure path per spec §4.4.3
// ("temp files are deleted on scope exit, success or failure") and
// grounded on atomic.go's TempFile helper.
func sortJSONLByAccession(r io.Reader, opts JSONLOptions) (_ string, cleanup func(), err error) {
	sc := newLineScanner(r)
	chunkSize := opts.chunkSize()

	var runPaths []string
	cleanupRuns := func() {
		for _, p := range runPaths {
			os.Remove(p)
		}
	}
	defer func() {
		if err != nil {
			cleanupRuns()
		}
	}()

	var buf []accessionLine
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		sort.Slice(buf, func(i, j int) bool { return buf[i].accession < buf[j].accession })
		f, fcleanup, err := TempFile(opts.SortTempDir, "genomedb-jsonl-run-*.jsonl")
		if err != nil {
			return err
		}
		_ = fcleanup // the run file outlives this closure; runPaths drives cleanup
		w := bufio.NewWriter(f)
		for _, al := range buf {
			if _, err := w.WriteString(al.line); err != nil {
				f.Close()
				return errs.Wrap(errs.StoreError, "write merge-sort run", err)
			}
			if _, err := w.WriteString("\n"); err != nil {
				f.Close()
				return errs.Wrap(errs.StoreError, "write merge-sort run", err)
			}
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return errs.Wrap(errs.StoreError, "flush merge-sort run", err)
		}
		if err := f.Close(); err != nil {
			return errs.Wrap(errs.StoreError, "close merge-sort run", err)
		}
		runPaths = append(runPaths, f.Name())
		buf = buf[:0]
		return nil
	}

	for {
		line, ok := sc.scan()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		buf = append(buf, accessionLine{accession: extractAccession(line), line: line})
		if len(buf) >= chunkSize {
			if err := flush(); err != nil {
				return "", nil, err
			}
		}
	}
	if err := sc.err(); err != nil {
		return "", nil, errs.Wrap(errs.FormatError, "reading jsonl input for sort", err)
	}
	if err := flush(); err != nil {
		return "", nil, err
	}

	if len(runPaths) == 0 {
		f, _, err := TempFile(opts.SortTempDir, "genomedb-jsonl-empty-*.jsonl")
		if err != nil {
			return "", nil, err
		}
		f.Close()
		runPaths = append(runPaths, f.Name())
	}

	merged, err := kWayMergeAccessionSorted(runPaths, opts.SortTempDir)
	if err != nil {
		return "", nil, err
	}

	return merged, func() {
		cleanupRuns()
		os.Remove(merged)
	}, nil
}

// accessionLine pairs one JSONL line with its sort key (the ClinVar
// accession, extracted without a full json.Unmarshal to keep the sample
// pass cheap).
type accessionLine struct {
	accession string
	line      string
}

// extractAccession reads just the "accession":{"acc":"..."} field out of
// a JSONL line. Falls back to the empty string (sorts first) on any
// parse failure; the later full-decode pass in ImportClinVarJSONL is
// what actually surfaces a FormatError for malformed lines.
func extractAccession(line string) string {
	var probe struct {
		Accession struct {
			Acc string `json:"acc"`
		} `json:"accession"`
	}
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return ""
	}
	return probe.Accession.Acc
}

// mergeSource is one open run file being drained by the k-way merge.
type mergeSource struct {
	sc   *lineScanner
	f    *os.File
	cur  accessionLine
	done bool
}

func (s *mergeSource) advance() error {
	line, ok := s.sc.scan()
	if !ok {
		s.done = true
		return s.sc.err()
	}
	s.cur = accessionLine{accession: extractAccession(line), line: line}
	return nil
}

// mergeHeap is a min-heap over open merge sources ordered by the current
// line's accession, the k-way merge step of spec §4.4.3.
type mergeHeap []*mergeSource

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].cur.accession < h[j].cur.accession }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(*mergeSource)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// kWayMergeAccessionSorted merges runPaths (each already accession-sorted)
// into a single sorted temp file via a min-heap k-way merge.
func kWayMergeAccessionSorted(runPaths []string, tempDir string) (string, error) {
	var sources mergeHeap
	defer func() {
		for _, s := range sources {
			s.f.Close()
		}
	}()

	for _, p := range runPaths {
		f, err := os.Open(p)
		if err != nil {
			return "", errs.Wrap(errs.StoreError, "open merge-sort run "+p, err)
		}
		s := &mergeSource{sc: newLineScanner(f), f: f}
		if err := s.advance(); err != nil {
			f.Close()
			return "", errs.Wrap(errs.StoreError, "read merge-sort run "+p, err)
		}
		if s.done {
			f.Close()
			continue
		}
		sources = append(sources, s)
	}
	heap.Init(&sources)

	out, outCleanup, err := TempFile(tempDir, "genomedb-jsonl-merged-*.jsonl")
	if err != nil {
		return "", err
	}
	success := false
	defer func() {
		if !success {
			outCleanup()
		}
	}()

	w := bufio.NewWriter(out)
	for sources.Len() > 0 {
		top := sources[0]
		if _, err := w.WriteString(top.cur.line); err != nil {
			return "", errs.Wrap(errs.StoreError, "write merged jsonl output", err)
		}
		if _, err := w.WriteString("\n"); err != nil {
			return "", errs.Wrap(errs.StoreError, "write merged jsonl output", err)
		}
		if err := top.advance(); err != nil {
			return "", errs.Wrap(errs.StoreError, "advance merge-sort run", err)
		}
		if top.done {
			top.f.Close()
			heap.Pop(&sources)
		} else {
			heap.Fix(&sources, 0)
		}
	}
	if err := w.Flush(); err != nil {
		return "", errs.Wrap(errs.StoreError, "flush merged jsonl output", err)
	}
	if err := out.Close(); err != nil {
		return "", errs.Wrap(errs.StoreError, "close merged jsonl output", err)
	}
	success = true
	return out.Name(), nil
}
