package llm

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wuminghan/specpipe/internal/entity"
	"github.com/wuminghan/specpipe/internal/value"
)

// rawRecord mirrors the model's JSON loosely; specification values arrive
// as strings, numbers, or small objects and are normalised afterwards.
type rawRecord struct {
	BasicInfo struct {
		Name        string          `json:"name"`
		Code        string          `json:"code"`
		Category    string          `json:"category"`
		BasePrice   json.RawMessage `json:"base_price"`
		Description string          `json:"description"`
	} `json:"basic_info"`
	Specifications       map[string]json.RawMessage `json:"specifications"`
	Features             []entity.Feature           `json:"features"`
	ApplicationScenarios []entity.Scenario          `json:"application_scenarios"`
	Accessories          []entity.Accessory         `json:"accessories"`
	Certificates         []entity.Certificate       `json:"certificates"`
	SupportInfo          entity.SupportInfo         `json:"support_info"`
}

type rawSpecObject struct {
	Value        json.RawMessage `json:"value"`
	Unit         string          `json:"unit"`
	NumericValue *float64        `json:"numeric_value"`
}

// decodeRecord turns validated completion JSON into an ExtractedRecord.
// String-typed spec values are run through the value parser so the merger
// can compare structured decomposition on equal footing.
func decodeRecord(data []byte) (*entity.ExtractedRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}

	rec := entity.NewExtractedRecord()
	rec.BasicInfo = entity.BasicInfo{
		Name:        raw.BasicInfo.Name,
		Code:        raw.BasicInfo.Code,
		Category:    raw.BasicInfo.Category,
		Description: raw.BasicInfo.Description,
	}
	if p, ok := decodeNumber(raw.BasicInfo.BasePrice); ok && p >= 0 {
		rec.BasicInfo.BasePrice = &p
	}
	if raw.Features != nil {
		rec.Features = raw.Features
	}
	if raw.ApplicationScenarios != nil {
		rec.ApplicationScenarios = raw.ApplicationScenarios
	}
	if raw.Accessories != nil {
		rec.Accessories = raw.Accessories
	}
	if raw.Certificates != nil {
		rec.Certificates = raw.Certificates
	}
	rec.SupportInfo = raw.SupportInfo

	for name, rawVal := range raw.Specifications {
		sv, ok := decodeSpecValue(rawVal)
		if !ok {
			continue
		}
		sv.Source = entity.SourceModel
		rec.Specifications[name] = sv
	}
	return rec, nil
}

func decodeSpecValue(raw json.RawMessage) (entity.SpecValue, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return entity.SpecValue{}, false
		}
		return value.Parse(s), true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return value.Parse(strconv.FormatFloat(n, 'g', -1, 64)), true
	}
	var obj rawSpecObject
	if err := json.Unmarshal(raw, &obj); err == nil {
		sv := entity.SpecValue{Unit: obj.Unit, NumericValue: obj.NumericValue}
		if v, ok := decodeNumber(obj.Value); ok {
			sv.RawValue = strconv.FormatFloat(v, 'g', -1, 64)
			if sv.NumericValue == nil {
				sv.NumericValue = &v
			}
		} else {
			var vs string
			if err := json.Unmarshal(obj.Value, &vs); err == nil {
				sv.RawValue = vs
				if sv.NumericValue == nil && sv.Unit == "" {
					parsed := value.Parse(vs)
					parsed.Source = sv.Source
					return parsed, vs != ""
				}
			}
		}
		if sv.RawValue == "" && sv.NumericValue == nil {
			return entity.SpecValue{}, false
		}
		return sv, true
	}
	return entity.SpecValue{}, false
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
