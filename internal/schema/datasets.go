package schema

// The concrete datasets named by the CLI surface of spec §6. Each is a
// stateless value implementing Dataset; NewDefaultRegistry wires every
// one of them the way internal/annotate/source.go wired its built-in
// AnnotationSources, generalized to a store-facing registration.

// variantDataset is embedded by every variant-keyed Dataset to share the
// boilerplate KeyKind/CFs/Record plumbing.
type variantDataset struct {
	name          string
	schemaVersion string
	cfs           CFSet
	newRecord     func() Record
}

func (d variantDataset) Name() string          { return d.name }
func (d variantDataset) SchemaVersion() string { return d.schemaVersion }
func (d variantDataset) KeyKind() KeyKind       { return KeyKindVariant }
func (d variantDataset) CFs() CFSet            { return d.cfs }
func (d variantDataset) Record() Record        { return d.newRecord() }

// intervalDataset is the interval-keyed equivalent of variantDataset.
type intervalDataset struct {
	name          string
	schemaVersion string
	cfs           CFSet
	newRecord     func() Record
}

func (d intervalDataset) Name() string          { return d.name }
func (d intervalDataset) SchemaVersion() string { return d.schemaVersion }
func (d intervalDataset) KeyKind() KeyKind       { return KeyKindInterval }
func (d intervalDataset) CFs() CFSet            { return d.cfs }
func (d intervalDataset) Record() Record        { return d.newRecord() }

// NewDBSNPDataset returns the dbsnp dataset: variant-keyed, rsID
// accession index, raw-line tabular values (dbSNP ships as VCF but this
// system treats it as a thin rsID→variant lookup, so a tabular-style raw
// record is sufficient; see DESIGN.md).
func NewDBSNPDataset() Dataset {
	return variantDataset{
		name:          "dbsnp",
		schemaVersion: "1",
		cfs: CFSet{
			Primary:     "dbsnp",
			ByAccession: "dbsnp_by_accession",
		},
		newRecord: func() Record { return &TabularRecord{} },
	}
}

// NewGnomadNuclearDataset returns the gnomad-nuclear dataset: variant-
// keyed allele-count records (spec §4.4.2, §6).
func NewGnomadNuclearDataset() Dataset {
	return variantDataset{
		name:          "gnomad-nuclear",
		schemaVersion: "1",
		cfs:           CFSet{Primary: "gnomad-nuclear"},
		newRecord:     func() Record { return &AlleleCountRecord{} },
	}
}

// NewGnomadMtDNADataset returns the gnomad-mtdna dataset, allele-count
// records restricted to the MT chromosome rank.
func NewGnomadMtDNADataset() Dataset {
	return variantDataset{
		name:          "gnomad-mtdna",
		schemaVersion: "1",
		cfs:           CFSet{Primary: "gnomad-mtdna"},
		newRecord:     func() Record { return &AlleleCountRecord{} },
	}
}

// NewGnomadSVDataset returns the gnomad-sv dataset: interval-keyed SV
// records with a bin-indexed CF for overlap queries (spec §4.4.2, §4.5).
func NewGnomadSVDataset() Dataset {
	return intervalDataset{
		name:          "gnomad-sv",
		schemaVersion: "1",
		cfs: CFSet{
			Primary: "gnomad-sv",
			Bin:     "gnomad-sv_bin",
		},
		newRecord: func() Record { return &SVRecord{} },
	}
}

// NewHelixMTdbDataset returns the helixmtdb dataset: variant-keyed
// allele-count records restricted to mitochondrial variants, mirroring
// gnomAD's MT dataset shape but from a distinct upstream source.
func NewHelixMTdbDataset() Dataset {
	return variantDataset{
		name:          "helixmtdb",
		schemaVersion: "1",
		cfs:           CFSet{Primary: "helixmtdb"},
		newRecord:     func() Record { return &AlleleCountRecord{} },
	}
}

// NewConservationDataset returns the cons dataset: variant-keyed
// per-base conservation scores.
func NewConservationDataset() Dataset {
	return variantDataset{
		name:          "cons",
		schemaVersion: "1",
		cfs:           CFSet{Primary: "cons"},
		newRecord:     func() Record { return &ConservationRecord{} },
	}
}

// NewClinVarMinimalDataset returns the clinvar-minimal dataset:
// variant-keyed extracted ClinVar records with an RCV accession index
// (spec §6, §8 scenario 3).
func NewClinVarMinimalDataset() Dataset {
	return variantDataset{
		name:          "clinvar-minimal",
		schemaVersion: "1",
		cfs: CFSet{
			Primary:     "clinvar-minimal",
			ByAccession: "clinvar-minimal_by_accession",
			Secondary:   map[string]string{"rcv": "clinvar-minimal_by_rcv"},
		},
		newRecord: func() Record { return &ClinVarRecord{} },
	}
}

// NewClinVarSVDataset returns the clinvar-sv dataset: interval-keyed
// ClinVar structural-variant records (spec §8 boundary case: long
// REF/ALT filtered by the ingest pipeline, not this type).
func NewClinVarSVDataset() Dataset {
	return intervalDataset{
		name:          "clinvar-sv",
		schemaVersion: "1",
		cfs: CFSet{
			Primary:     "clinvar-sv",
			Bin:         "clinvar-sv_bin",
			ByAccession: "clinvar-sv_by_accession",
		},
		newRecord: func() Record { return &ClinVarSVRecord{} },
	}
}

// NewClinVarGenesDataset returns the clinvar-genes dataset: a
// gene-summary dataset keyed by HGNC ID, not by variant (see §6's
// "<dataset>_by_hgnc_id" secondary index convention, used here as the
// primary accession rather than a secondary one since this dataset has
// no underlying variant key at all).
func NewClinVarGenesDataset() Dataset {
	return variantDataset{
		name:          "clinvar-genes",
		schemaVersion: "1",
		cfs: CFSet{
			Primary:     "clinvar-genes",
			ByAccession: "clinvar-genes_by_hgnc_id",
		},
		newRecord: func() Record { return &GeneSummaryRecord{} },
	}
}

// NewGenesDataset returns the genes dataset: gene dosage/haploinsufficiency
// records, looked up by HGNC ID, symbol, NCBI gene ID, or Ensembl ID
// (spec §4.5 composite gene-lookup operator, §8 scenario 5).
func NewGenesDataset() Dataset {
	return variantDataset{
		name:          "genes",
		schemaVersion: "1",
		cfs: CFSet{
			Primary:     "genes",
			ByAccession: "genes_by_hgnc_id",
			Secondary: map[string]string{
				"symbol":  "genes_by_symbol",
				"ncbi":    "genes_by_ncbi_gene_id",
				"ensembl": "genes_by_ensembl_id",
			},
		},
		newRecord: func() Record { return &GeneDosageRecord{} },
	}
}

// NewRegionsDataset returns the regions dataset: generic interval
// records for caller-defined genomic regions, ingested from GFF
// (spec §4.4.4).
func NewRegionsDataset() Dataset {
	return intervalDataset{
		name:          "regions",
		schemaVersion: "1",
		cfs: CFSet{
			Primary: "regions",
			Bin:     "regions_bin",
		},
		newRecord: func() Record { return &FunctionalElementRecord{} },
	}
}

// NewFunctionalDataset returns the functional dataset: non-coding
// functional element records (promoters, enhancers, TF binding sites),
// ingested from GFF (spec §4.4.4).
func NewFunctionalDataset() Dataset {
	return intervalDataset{
		name:          "functional",
		schemaVersion: "1",
		cfs: CFSet{
			Primary: "functional",
			Bin:     "functional_bin",
		},
		newRecord: func() Record { return &FunctionalElementRecord{} },
	}
}

// NewTSVDataset returns a generic tabular dataset registered under a
// caller-supplied name (the `tsv import --dataset-name foo` case of
// spec §4.4.1, distinct from the twelve built-in named datasets).
func NewTSVDataset(name string) Dataset {
	return variantDataset{
		name:          name,
		schemaVersion: "1",
		cfs:           CFSet{Primary: name},
		newRecord:     func() Record { return &TabularRecord{} },
	}
}

// NewDefaultRegistry returns a Registry with every built-in dataset of
// spec §6 registered, in CLI declaration order. `tsv` datasets are
// registered on demand via NewTSVDataset and are not part of this fixed
// set.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []Dataset{
		NewDBSNPDataset(),
		NewGnomadNuclearDataset(),
		NewGnomadMtDNADataset(),
		NewGnomadSVDataset(),
		NewHelixMTdbDataset(),
		NewConservationDataset(),
		NewClinVarMinimalDataset(),
		NewClinVarSVDataset(),
		NewClinVarGenesDataset(),
		NewGenesDataset(),
		NewRegionsDataset(),
		NewFunctionalDataset(),
	} {
		// Registration of the fixed built-in set never collides; a
		// collision here is a programmer error caught by tests.
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}
