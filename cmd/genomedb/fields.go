package main

import (
	"encoding/json"

	"github.com/genomedb/genomedb/internal/errs"
	"github.com/genomedb/genomedb/internal/ingest"
)

// decodeVCFFieldsJSON maps the `--import-fields-json` object (spec §4.4.2's
// enumerated subset names: vep, var_info, global_cohort_pops, all_cohorts,
// rf_info, effect_info, liftover, quality, age_hists, depth_details) onto
// ingest.VCFFields. Any field omitted from the object defaults to false;
// unrecognized keys are ignored rather than rejected (spec §9: "treat
// unknown fields as forward-compatible rather than fatal").
func decodeVCFFieldsJSON(s string) (ingest.VCFFields, error) {
	raw := map[string]bool{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return ingest.VCFFields{}, errs.Wrap(errs.InvalidInput, "malformed --import-fields-json", err)
	}
	return ingest.VCFFields{
		VEP:              raw["vep"],
		VarInfo:          raw["var_info"],
		GlobalCohortPops: raw["global_cohort_pops"],
		AllCohorts:       raw["all_cohorts"],
		RFInfo:           raw["rf_info"],
		EffectInfo:       raw["effect_info"],
		Liftover:         raw["liftover"],
		Quality:          raw["quality"],
		AgeHists:         raw["age_hists"],
		DepthDetails:     raw["depth_details"],
	}, nil
}
