package schema

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/genomedb/genomedb/internal/errs"
)

// binWriter and binReader implement the length-prefixed-field compact
// binary codec named in DESIGN.md for structured records (allele counts,
// SV records): the same fixed-width/length-prefixed idiom the variant key
// codec itself uses (internal/codec), rather than a general-purpose
// serialization library.
type binWriter struct {
	buf bytes.Buffer
}

func (w *binWriter) putUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) putInt64(v int64) { w.putUint64(uint64(v)) }

func (w *binWriter) putFloat64(v float64) {
	w.putUint64(math.Float64bits(v))
}

func (w *binWriter) putBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) putString(s string) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	w.buf.Write(lenBuf[:])
	w.buf.WriteString(s)
}

func (w *binWriter) putStrings(ss []string) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(ss)))
	w.buf.Write(n[:])
	for _, s := range ss {
		w.putString(s)
	}
}

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

type binReader struct {
	r   *bytes.Reader
	err error
}

func newBinReader(b []byte) *binReader {
	return &binReader{r: bytes.NewReader(b)}
}

func (r *binReader) fail() {
	if r.err == nil {
		r.err = errs.New(errs.StoreError, "corrupt binary record: unexpected end of data")
	}
}

func (r *binReader) getUint64() uint64 {
	if r.err != nil {
		return 0
	}
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		r.fail()
		return 0
	}
	return binary.BigEndian.Uint64(b[:])
}

func (r *binReader) getInt64() int64 { return int64(r.getUint64()) }

func (r *binReader) getFloat64() float64 {
	return math.Float64frombits(r.getUint64())
}

func (r *binReader) getBool() bool {
	if r.err != nil {
		return false
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.fail()
		return false
	}
	return b != 0
}

func (r *binReader) getString() string {
	if r.err != nil {
		return ""
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
		r.fail()
		return ""
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.fail()
		return ""
	}
	return string(b)
}

func (r *binReader) getStrings() []string {
	if r.err != nil {
		return nil
	}
	var nBuf [4]byte
	if _, err := io.ReadFull(r.r, nBuf[:]); err != nil {
		r.fail()
		return nil
	}
	n := binary.BigEndian.Uint32(nBuf[:])
	out := make([]string, n)
	for i := range out {
		out[i] = r.getString()
	}
	return out
}

func (r *binReader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.r.Len() != 0 {
		return errs.New(errs.StoreError, "corrupt binary record: trailing bytes")
	}
	return nil
}
