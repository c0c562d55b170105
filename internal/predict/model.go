// Package predict implements the prediction form: field state, the
// submit-predict-settle cycle, and the request state shown to the user.
package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range hints for the numeric fields. They are shown to the user, never enforced.
const (
	MinBedrooms     = 1
	MaxBedrooms     = 10
	MinPropertySize = 500
	MaxPropertySize = 10000
)

// Field names one editable datum of the form. Values match the wire names.
type Field string

const (
	FieldPropertyType Field = "property_type"
	FieldTownship     Field = "township"
	FieldBedrooms     Field = "bedrooms"
	FieldPropertySize Field = "property_size"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldPropertyType, FieldTownship, FieldBedrooms, FieldPropertySize}

// ParseField converts a field name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Label returns a human-readable label for the field.
func (f Field) Label() string {
	switch f {
	case FieldPropertyType:
		return "Property Type"
	case FieldTownship:
		return "Township"
	case FieldBedrooms:
		return "Bedrooms"
	case FieldPropertySize:
		return "Property Size (sqft)"
	default:
		return string(f)
	}
}

// FormInput is the property descriptor being edited.
// Numeric fields hold NaN when the user's text did not parse.
type FormInput struct {
	PropertyType string
	Township     string
	Bedrooms     float64
	PropertySize float64
}

// MarshalJSON writes NaN numbers as null.
func (in FormInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(in.Request())
}

// Request builds the wire payload for this input.
func (in FormInput) Request() Request {
	return Request{
		PropertyType: in.PropertyType,
		Township:     in.Township,
		Bedrooms:     finite(in.Bedrooms),
		PropertySize: finite(in.PropertySize),
	}
}

// BedroomsInRange reports whether bedrooms is a number inside the hint range.
func (in FormInput) BedroomsInRange() bool {
	return in.Bedrooms >= MinBedrooms && in.Bedrooms <= MaxBedrooms
}

// PropertySizeInRange reports whether the size is a number inside the hint range.
func (in FormInput) PropertySizeInRange() bool {
	return in.PropertySize >= MinPropertySize && in.PropertySize <= MaxPropertySize
}

// parseNumber coerces raw text to a number. Unparseable text becomes NaN.
func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Request is the body of POST /api/predict. Nil numbers are sent as null.
type Request struct {
	PropertyType string   `json:"property_type"`
	Township     string   `json:"township"`
	Bedrooms     *float64 `json:"bedrooms"`
	PropertySize *float64 `json:"property_size"`
}

// Response is the body returned by the prediction backend.
type Response struct {
	Success      bool    `json:"success"`
	Prediction   float64 `json:"prediction,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	InputDetails *Echo   `json:"input_details,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Echo is the input as the backend interpreted it. It is for display only.
type Echo struct {
	PropertyType string  `json:"property_type"`
	Township     string  `json:"township"`
	Bedrooms     Measure `json:"bedrooms"`
	PropertySize Measure `json:"property_size"`
}

// Measure is an echoed quantity. Backends send either a number or a
// preformatted string such as "2,000.0 sqft".
type Measure struct {
	Text    string
	Value   float64
	Numeric bool
}

// NumberMeasure returns a numeric Measure.
func NumberMeasure(v float64) Measure {
	return Measure{Text: strconv.FormatFloat(v, 'f', -1, 64), Value: v, Numeric: true}
}

// TextMeasure returns a Measure that only has display text.
func TextMeasure(s string) Measure {
	return Measure{Text: s}
}

// String returns the display text.
func (m Measure) String() string {
	return m.Text
}

// UnmarshalJSON accepts a JSON number or string.
func (m *Measure) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*m = Measure{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = TextMeasure(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("measure must be a number or string: %w", err)
	}
	*m = NumberMeasure(v)
	return nil
}

// MarshalJSON writes the measure back in the form it arrived.
func (m Measure) MarshalJSON() ([]byte, error) {
	if m.Numeric {
		return json.Marshal(m.Value)
	}
	return json.Marshal(m.Text)
}

// Result is a successful prediction.
type Result struct {
	EstimatedPrice float64 `json:"estimated_price"`
	Currency       string  `json:"currency"`
	Echo           Echo    `json:"echo"`
}

// DisplayPrice formats the estimate as "$250,000".
func (r Result) DisplayPrice() string {
	return FormatPrice(r.EstimatedPrice)
}
