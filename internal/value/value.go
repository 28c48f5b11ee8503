// Package value decomposes raw specification values into number, unit,
// range, and tolerance. Parsing never fails: the raw string is always kept.
package value

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wuminghan/specpipe/internal/entity"
)

const num = `[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`
const unit = `[A-Za-z°℃℉%Ω]{1,6}`

var (
	reTolerance = regexp.MustCompile(`^(` + num + `)\s*±\s*(` + num + `)\s*(` + unit + `)?`)
	reRange     = regexp.MustCompile(`^(` + num + `)\s*[–~—-]\s*(` + num + `)\s*(` + unit + `)?`)
	rePercent   = regexp.MustCompile(`^(` + num + `)\s*%`)
	reNumUnit   = regexp.MustCompile(`^(` + num + `)\s*(` + unit + `)`)
	reNumber    = regexp.MustCompile(`^(` + num + `)\s*$`)
)

// Parse decomposes s into a SpecValue. The first matching pattern wins:
// tolerance, range, percentage, number+unit, bare number. Units are taken
// lexically; no normalisation is applied (kV stays kV).
func Parse(s string) entity.SpecValue {
	v := entity.SpecValue{RawValue: s}
	t := strings.TrimSpace(s)
	if t == "" {
		return v
	}

	if m := reTolerance.FindStringSubmatch(t); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			if tol, err := strconv.ParseFloat(m[2], 64); err == nil {
				v.NumericValue = &n
				v.Tolerance = &tol
				v.Unit = m[3]
				return v
			}
		}
	}
	if m := reRange.FindStringSubmatch(t); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil && lo <= hi {
			v.Range = &entity.Range{Min: lo, Max: hi}
			v.Unit = m[3]
			return v
		}
	}
	if m := rePercent.FindStringSubmatch(t); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			v.NumericValue = &n
			v.Unit = "%"
			return v
		}
	}
	// Bare number first: "1.5e3" must not split into 1.5 + unit "e3".
	if m := reNumber.FindStringSubmatch(t); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			v.NumericValue = &n
			return v
		}
	}
	if m := reNumUnit.FindStringSubmatch(t); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			v.NumericValue = &n
			v.Unit = m[2]
			return v
		}
	}
	return v
}
