package confidence

import (
	"regexp"
	"unicode"

	"github.com/wuminghan/specpipe/internal/entity"
)

var (
	reCode  = regexp.MustCompile(`^[A-Z0-9_\-]+$`)
	reEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	rePhone = regexp.MustCompile(`^[\d\-+() ]+$`)
)

// fieldScores computes the per-field rubric scores keyed by dotted path,
// plus aggregate entries that are means of their members. Present fields
// start from 0.5; missing fields score 0.
func fieldScores(rec *entity.ExtractedRecord) map[string]float64 {
	fields := make(map[string]float64)
	bi := rec.BasicInfo

	fields["basic_info.name"] = scoreName(bi.Name)
	fields["basic_info.code"] = scoreCode(bi.Code)
	fields["basic_info.category"] = scoreCategory(bi.Category)
	fields["basic_info.base_price"] = scorePrice(bi.BasePrice)
	fields["basic_info.description"] = scoreDescription(bi.Description)
	fields["basic_info"] = mean([]float64{
		fields["basic_info.name"], fields["basic_info.code"], fields["basic_info.category"],
		fields["basic_info.base_price"], fields["basic_info.description"],
	})

	if len(rec.Specifications) > 0 {
		var specScores []float64
		for name, v := range rec.Specifications {
			sc := scoreSpec(v)
			fields["specifications."+name] = sc
			specScores = append(specScores, sc)
		}
		fields["specifications"] = mean(specScores)
	} else {
		fields["specifications"] = 0
	}

	if len(rec.Features) > 0 {
		var featScores []float64
		for _, f := range rec.Features {
			featScores = append(featScores, scoreFeature(f))
		}
		fields["features"] = mean(featScores)
	} else {
		fields["features"] = 0
	}

	ci := rec.SupportInfo.ContactInfo
	addContact(fields, "support_info.contact_info.sales_email", ci.SalesEmail, reEmail)
	addContact(fields, "support_info.contact_info.support_email", ci.SupportEmail, reEmail)
	addContact(fields, "support_info.contact_info.sales_phone", ci.SalesPhone, rePhone)
	addContact(fields, "support_info.contact_info.support_phone", ci.SupportPhone, rePhone)

	return fields
}

func scoreName(name string) float64 {
	if name == "" {
		return 0
	}
	score := 0.5
	if len([]rune(name)) >= 3 {
		score += 0.2
	}
	if containsDigit(name) {
		score += 0.1
	}
	return clamp01(score)
}

func scoreCode(code string) float64 {
	if code == "" {
		return 0
	}
	score := 0.5
	if reCode.MatchString(code) {
		score += 0.3
	}
	if n := len(code); n >= 3 && n <= 20 {
		score += 0.2
	}
	return clamp01(score)
}

func scoreCategory(cat string) float64 {
	if cat == "" {
		return 0
	}
	score := 0.5
	if n := len([]rune(cat)); n >= 2 && n <= 20 {
		score += 0.3
	}
	return clamp01(score)
}

func scorePrice(p *float64) float64 {
	if p == nil {
		return 0
	}
	score := 0.5
	if *p >= 1 && *p <= 1_000_000 {
		score += 0.3
	}
	return clamp01(score)
}

func scoreDescription(desc string) float64 {
	if desc == "" {
		return 0
	}
	score := 0.5
	n := len([]rune(desc))
	if n >= 10 {
		score += 0.2
	}
	if n >= 40 {
		score += 0.1
	}
	return clamp01(score)
}

func scoreSpec(v entity.SpecValue) float64 {
	score := 0.5
	if v.Structured() {
		score += 0.2
	}
	if v.Unit != "" {
		score += 0.2
	}
	return clamp01(score)
}

func scoreFeature(f entity.Feature) float64 {
	if f.Title == "" {
		return 0
	}
	score := 0.5
	if len([]rune(f.Title)) >= 2 {
		score += 0.2
	}
	if f.Description != "" {
		score += 0.3
	}
	return clamp01(score)
}

func addContact(fields map[string]float64, key, value string, re *regexp.Regexp) {
	if value == "" {
		fields[key] = 0
		return
	}
	score := 0.5
	if re.MatchString(value) {
		score += 0.5
	}
	fields[key] = clamp01(score)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
