package schema

// CohortCounts is the fixed allele-count record contract of spec §6:
// "fields ac, an, af, n_bi_genos, n_homref, n_het, n_homalt,
// freq_{homref,het,homalt}, n_hemiref, n_hemialt, freq_hemiref,
// freq_hemialt". A source may omit the hemizygous axis entirely (e.g. an
// autosomal population with no sex-chromosome calls); zero values encode
// that per §8's round-trip law.
type CohortCounts struct {
	AC          int64
	AN          int64
	AF          float64
	NBiGenos    int64
	NHomref     int64
	NHet        int64
	NHomalt     int64
	FreqHomref  float64
	FreqHet     float64
	FreqHomalt  float64
	NHemiref    int64
	NHemialt    int64
	FreqHemiref float64
	FreqHemialt float64
}

// SexSplit groups one cohort's counts by sex karyotype, per spec §4.4.2:
// "cohort → {overall, xx, xy} → population".
type SexSplit struct {
	Overall map[string]CohortCounts
	XX      map[string]CohortCounts
	XY      map[string]CohortCounts
}

// AlleleCountRecord is the gnomAD-style record written to a population
// allele-frequency dataset's primary CF by the VCF ingest pipeline
// (spec §4.4.2, §6).
type AlleleCountRecord struct {
	Overall CohortCounts
	Cohorts map[string]SexSplit
}

func (r *AlleleCountRecord) encodeCohortCounts(w *binWriter, c CohortCounts) {
	w.putInt64(c.AC)
	w.putInt64(c.AN)
	w.putFloat64(c.AF)
	w.putInt64(c.NBiGenos)
	w.putInt64(c.NHomref)
	w.putInt64(c.NHet)
	w.putInt64(c.NHomalt)
	w.putFloat64(c.FreqHomref)
	w.putFloat64(c.FreqHet)
	w.putFloat64(c.FreqHomalt)
	w.putInt64(c.NHemiref)
	w.putInt64(c.NHemialt)
	w.putFloat64(c.FreqHemiref)
	w.putFloat64(c.FreqHemialt)
}

func (r *AlleleCountRecord) decodeCohortCounts(br *binReader) CohortCounts {
	return CohortCounts{
		AC:          br.getInt64(),
		AN:          br.getInt64(),
		AF:          br.getFloat64(),
		NBiGenos:    br.getInt64(),
		NHomref:     br.getInt64(),
		NHet:        br.getInt64(),
		NHomalt:     br.getInt64(),
		FreqHomref:  br.getFloat64(),
		FreqHet:     br.getFloat64(),
		FreqHomalt:  br.getFloat64(),
		NHemiref:    br.getInt64(),
		NHemialt:    br.getInt64(),
		FreqHemiref: br.getFloat64(),
		FreqHemialt: br.getFloat64(),
	}
}

func (r *AlleleCountRecord) encodePopMap(w *binWriter, m map[string]CohortCounts) {
	w.putUint64(uint64(len(m)))
	for name, c := range m {
		w.putString(name)
		r.encodeCohortCounts(w, c)
	}
}

func (r *AlleleCountRecord) decodePopMap(br *binReader) map[string]CohortCounts {
	n := br.getUint64()
	if n == 0 {
		return nil
	}
	m := make(map[string]CohortCounts, n)
	for i := uint64(0); i < n; i++ {
		name := br.getString()
		m[name] = r.decodeCohortCounts(br)
	}
	return m
}

// Encode implements Record.
func (r *AlleleCountRecord) Encode() ([]byte, error) {
	w := &binWriter{}
	r.encodeCohortCounts(w, r.Overall)
	w.putUint64(uint64(len(r.Cohorts)))
	for name, split := range r.Cohorts {
		w.putString(name)
		r.encodePopMap(w, split.Overall)
		r.encodePopMap(w, split.XX)
		r.encodePopMap(w, split.XY)
	}
	return w.bytes(), nil
}

// Decode implements Record.
func (r *AlleleCountRecord) Decode(b []byte) error {
	br := newBinReader(b)
	r.Overall = r.decodeCohortCounts(br)
	n := br.getUint64()
	if n > 0 {
		r.Cohorts = make(map[string]SexSplit, n)
	}
	for i := uint64(0); i < n; i++ {
		name := br.getString()
		r.Cohorts[name] = SexSplit{
			Overall: r.decodePopMap(br),
			XX:      r.decodePopMap(br),
			XY:      r.decodePopMap(br),
		}
	}
	return br.done()
}
