package schema

// Fixed metadata keys of spec §4.3/§6, carried in the "meta" CF
// (store.MetaCF) of every database directory.
const (
	MetaDBName          = "db-name"
	MetaDBVersion       = "db-version"
	MetaDBSchemaVersion = "db-schema-version"
	MetaGenomeRelease   = "genome-release"
	// MetaCreatedFromPrefix namespaces the "created-from/<upstream>"
	// entries describing upstream source name/version pairs (spec §4.3).
	MetaCreatedFromPrefix = "created-from/"
)

// CreatedFromKey builds the metadata key recording the version of an
// upstream source a dataset was built from, e.g. "created-from/gnomad".
func CreatedFromKey(upstreamName string) string {
	return MetaCreatedFromPrefix + upstreamName
}

// TabularSchemaKey builds the metadata key under which a tabular
// dataset's inferred/seeded column schema is stored as JSON, namespaced
// per dataset so two `tsv import` runs against the same database
// directory do not collide.
func TabularSchemaKey(datasetName string) string {
	return datasetName + "-schema"
}
