package entity

// Spec value sources, recorded by the parser that produced the value.
const (
	SourcePipeTable    = "pipe_table"
	SourceTabTable     = "tab_table"
	SourceColonTable   = "colon_table"
	SourceSpecTable    = "spec_table"
	SourceGenericTable = "generic_table"
	SourceModel        = "model"
)

// Range is a numeric interval parsed from expressions like "0–240".
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SpecValue is the central parsed-value record for one technical parameter.
// At least one of RawValue, NumericValue, Range is always present.
type SpecValue struct {
	RawValue     string   `json:"value"`
	NumericValue *float64 `json:"numeric_value,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Range        *Range   `json:"range,omitempty"`
	Tolerance    *float64 `json:"tolerance,omitempty"`
	Source       string   `json:"-"`
}

// Structured reports whether the value carries any numeric decomposition
// beyond the raw string.
func (v SpecValue) Structured() bool {
	return v.NumericValue != nil || v.Range != nil || v.Tolerance != nil
}

// BasicInfo is the product identity block.
type BasicInfo struct {
	Name        string   `json:"name,omitempty"`
	Code        string   `json:"code,omitempty"`
	Category    string   `json:"category,omitempty"`
	BasePrice   *float64 `json:"base_price,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Feature is one named product capability.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Scenario is an application scenario the product targets.
type Scenario struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Accessory is an optional or bundled accessory.
type Accessory struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Certificate is a conformity or type-test certificate.
type Certificate struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer,omitempty"`
	Description string `json:"description,omitempty"`
}

// ContactInfo holds sales/support reachability.
type ContactInfo struct {
	SalesEmail   string `json:"sales_email,omitempty"`
	SupportEmail string `json:"support_email,omitempty"`
	SalesPhone   string `json:"sales_phone,omitempty"`
	SupportPhone string `json:"support_phone,omitempty"`
}

// SupportInfo wraps contact information.
type SupportInfo struct {
	ContactInfo ContactInfo `json:"contact_info"`
}

// TableParsing records what the table pipeline contributed to the record.
type TableParsing struct {
	TablesFound       int     `json:"tables_found"`
	ParsingConfidence float64 `json:"parsing_confidence"`
	RescuedCount      int     `json:"rescued_count"`
}

// ExtractedRecord is the structured product record the pipeline produces.
type ExtractedRecord struct {
	BasicInfo            BasicInfo            `json:"basic_info"`
	Specifications       map[string]SpecValue `json:"specifications"`
	Features             []Feature            `json:"features"`
	ApplicationScenarios []Scenario           `json:"application_scenarios"`
	Accessories          []Accessory          `json:"accessories"`
	Certificates         []Certificate        `json:"certificates"`
	SupportInfo          SupportInfo          `json:"support_info"`
	TableParsing         TableParsing         `json:"table_parsing"`
}

// NewExtractedRecord returns a record with a non-nil specifications map and
// non-nil sequences so the serialized form always carries the required keys.
func NewExtractedRecord() *ExtractedRecord {
	return &ExtractedRecord{
		Specifications:       make(map[string]SpecValue),
		Features:             []Feature{},
		ApplicationScenarios: []Scenario{},
		Accessories:          []Accessory{},
		Certificates:         []Certificate{},
	}
}
