package schema

// SVRecord is the structural-variant record contract of spec §6: "chrom,
// pos, end?, chrom2?, end2?, id, filters[], sv_type, cpx_type?,
// allele_counts[]". pos/end/end2 of 0 encode an absent optional field
// (structural-variant positions are always > 0 once canonicalized).
type SVRecord struct {
	Chrom       string
	Pos         uint32
	End         uint32 // 0 if absent
	Chrom2      string // "" if absent (intra-chromosomal event)
	End2        uint32 // 0 if absent
	ID          string
	Filters     []string
	SVType      string
	CpxType     string // "" if absent
	AlleleCount CohortCounts
}

// Encode implements Record.
func (r *SVRecord) Encode() ([]byte, error) {
	w := &binWriter{}
	w.putString(r.Chrom)
	w.putUint64(uint64(r.Pos))
	w.putUint64(uint64(r.End))
	w.putString(r.Chrom2)
	w.putUint64(uint64(r.End2))
	w.putString(r.ID)
	w.putStrings(r.Filters)
	w.putString(r.SVType)
	w.putString(r.CpxType)
	ac := &AlleleCountRecord{}
	ac.encodeCohortCounts(w, r.AlleleCount)
	return w.bytes(), nil
}

// Decode implements Record.
func (r *SVRecord) Decode(b []byte) error {
	br := newBinReader(b)
	r.Chrom = br.getString()
	r.Pos = uint32(br.getUint64())
	r.End = uint32(br.getUint64())
	r.Chrom2 = br.getString()
	r.End2 = uint32(br.getUint64())
	r.ID = br.getString()
	r.Filters = br.getStrings()
	r.SVType = br.getString()
	r.CpxType = br.getString()
	ac := &AlleleCountRecord{}
	r.AlleleCount = ac.decodeCohortCounts(br)
	return br.done()
}

// HasSecondBreakend reports whether the record carries an inter-
// chromosomal or otherwise distinct second breakend.
func (r *SVRecord) HasSecondBreakend() bool {
	return r.Chrom2 != "" || r.End2 != 0
}

// Bounds implements query.IntervalRecord: the primary locus's start/stop,
// used by range-overlap queries. Translocation second breakends are not
// part of the primary interval and are not considered here.
func (r *SVRecord) Bounds() (start, stop uint32) { return r.Pos, r.End }
