package confidence

import "github.com/wuminghan/specpipe/internal/entity"

// recommend derives human-readable followups, ordered by the dimension
// that triggered them and deduplicated.
func recommend(env *entity.ConfidenceEnvelope) []string {
	var recs []string
	add := func(msg string) {
		for _, r := range recs {
			if r == msg {
				return
			}
		}
		recs = append(recs, msg)
	}

	if env.Overall < 0.6 {
		add("Overall confidence is low; manual review of the extracted record is recommended.")
	}
	if env.Completeness < 0.7 {
		add("Complete the missing required fields (product name, code, category).")
	}
	if env.Quality < 0.6 {
		add("Enrich the product description and feature details.")
	}
	if agg, ok := env.Fields["specifications"]; ok && agg < 0.6 {
		add("Verify extracted parameter values and units against the source document.")
	}
	if env.Format < 0.6 {
		add("Check the formats of product code, base price, and contact info.")
	}
	if env.Source < 0.5 {
		add("The source document is low quality; consider re-uploading a cleaner original.")
	}
	return recs
}
